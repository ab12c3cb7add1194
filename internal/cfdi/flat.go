package cfdi

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"costeo/ingesta/internal/dateutils"
	"costeo/ingesta/internal/ingesterror"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

// flatInvoice is the flat key/value invoice export: the same logical
// fields as the XML form, pre-extracted, for environments where
// structured-document parsing is unavailable. Amounts are decoded
// directly into decimals (shopspring accepts both JSON numbers and
// strings), never through float64.
type flatInvoice struct {
	ExternalUID   string         `json:"external_uid"`
	IssueDate     string         `json:"issue_date"`
	SupplierTaxID string         `json:"supplier_tax_id"`
	SupplierName  string         `json:"supplier_name"`
	Currency      string         `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	LineItems     []flatLineItem `json:"line_items"`
}

type flatLineItem struct {
	SKUOrCode   string          `json:"sku_or_code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ParseJSON parses the flat invoice form into the same CanonicalInvoice
// shape the XML parser produces. A missing supplier or an empty line-item
// collection is a StructureError, mirroring the XML form's mandatory
// nodes.
func (p *Parser) ParseJSON(data []byte, docName string) (models.CanonicalInvoice, error) {
	var flat flatInvoice
	if err := json.Unmarshal(data, &flat); err != nil {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{
			Document: docName, Node: "invoice object", Err: err,
		}
	}

	if flat.SupplierTaxID == "" && flat.SupplierName == "" {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "supplier"}
	}
	if len(flat.LineItems) == 0 {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "line_items"}
	}

	uid := flat.ExternalUID
	if uid == "" {
		uid = models.UIDMissing
	}

	invoice := models.CanonicalInvoice{
		ExternalUID:   uid,
		SupplierTaxID: flat.SupplierTaxID,
		SupplierName:  flat.SupplierName,
		Currency:      flat.Currency,
		Subtotal:      flat.Subtotal,
		Tax:           flat.Tax,
		Total:         flat.Total,
	}

	if issueDate, err := dateutils.ParseDate(flat.IssueDate); err == nil {
		invoice.IssueDate = issueDate
	}

	for _, li := range flat.LineItems {
		invoice.LineItems = append(invoice.LineItems, models.CanonicalLineItem{
			SKUOrCode:   li.SKUOrCode,
			Description: li.Description,
			Quantity:    li.Quantity,
			Unit:        li.Unit,
			UnitPrice:   li.UnitPrice,
			LineTotal:   li.LineTotal,
			Category:    p.classifier.Categorize(li.Description),
		})
	}

	if !invoice.HasUID() {
		p.logger.Warn("invoice carries no fiscal identifier, cannot deduplicate",
			logging.Field{Key: logging.FieldDocument, Value: docName})
	}

	return invoice, nil
}
