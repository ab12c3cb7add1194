// Package cfdi parses CFDI tax-invoice documents, in both the structured
// XML form and the flat JSON export form, into the canonical invoice
// model. Structural problems (missing issuer or line-items collection)
// are fatal for the document, unlike the row-level tolerance of the
// tabular parser.
package cfdi

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"costeo/ingesta/internal/dateutils"
	"costeo/ingesta/internal/ingesterror"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

// Classifier assigns a taxonomy category to a line-item description.
type Classifier interface {
	Categorize(description string) string
}

// Parser converts raw invoice documents into CanonicalInvoice values.
type Parser struct {
	classifier Classifier
	logger     logging.Logger
}

// NewParser builds an invoice parser. The classifier populates each line
// item's category before the invoice is returned.
func NewParser(classifier Classifier, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{classifier: classifier, logger: logger}
}

// ParseXML parses a CFDI XML document. docName identifies the document in
// errors and logs. Monetary attributes are carried as decimal strings end
// to end; they never pass through binary floating point.
func (p *Parser) ParseXML(data []byte, docName string) (models.CanonicalInvoice, error) {
	var doc comprobante
	if err := xml.Unmarshal(data, &doc); err != nil {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{
			Document: docName, Node: "Comprobante", Err: err,
		}
	}

	if doc.Emisor == nil {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "Emisor"}
	}
	if doc.Conceptos == nil || len(doc.Conceptos.Conceptos) == 0 {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "Conceptos"}
	}

	invoice := models.CanonicalInvoice{
		ExternalUID:   extractUID(doc),
		SupplierTaxID: doc.Emisor.Rfc,
		SupplierName:  doc.Emisor.Nombre,
		Currency:      doc.Moneda,
	}

	if issueDate, err := dateutils.ParseDate(doc.Fecha); err == nil {
		invoice.IssueDate = issueDate
	}

	var err error
	if invoice.Subtotal, err = parseDecimalAttr(doc.SubTotal); err != nil {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "SubTotal", Err: err}
	}
	if invoice.Total, err = parseDecimalAttr(doc.Total); err != nil {
		return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "Total", Err: err}
	}
	if doc.Impuestos != nil {
		if invoice.Tax, err = parseDecimalAttr(doc.Impuestos.TotalImpuestosTrasladados); err != nil {
			return models.CanonicalInvoice{}, &ingesterror.StructureError{Document: docName, Node: "Impuestos", Err: err}
		}
	}

	for i, c := range doc.Conceptos.Conceptos {
		item, err := p.lineItem(c)
		if err != nil {
			return models.CanonicalInvoice{}, &ingesterror.StructureError{
				Document: docName, Node: fmt.Sprintf("Concepto[%d]", i+1), Err: err,
			}
		}
		invoice.LineItems = append(invoice.LineItems, item)
	}

	if !invoice.HasUID() {
		p.logger.Warn("invoice carries no fiscal identifier, cannot deduplicate",
			logging.Field{Key: logging.FieldDocument, Value: docName})
	}
	p.logger.Debug("parsed CFDI invoice",
		logging.Field{Key: logging.FieldDocument, Value: docName},
		logging.Field{Key: logging.FieldUID, Value: invoice.ExternalUID},
		logging.Field{Key: logging.FieldCount, Value: len(invoice.LineItems)})

	return invoice, nil
}

// lineItem converts one Concepto node, assigning its category.
func (p *Parser) lineItem(c concepto) (models.CanonicalLineItem, error) {
	quantity, err := parseDecimalAttr(c.Cantidad)
	if err != nil {
		return models.CanonicalLineItem{}, fmt.Errorf("Cantidad: %w", err)
	}
	unitPrice, err := parseDecimalAttr(c.ValorUnitario)
	if err != nil {
		return models.CanonicalLineItem{}, fmt.Errorf("ValorUnitario: %w", err)
	}
	lineTotal, err := parseDecimalAttr(c.Importe)
	if err != nil {
		return models.CanonicalLineItem{}, fmt.Errorf("Importe: %w", err)
	}

	code := c.NoIdentificacion
	if code == "" {
		code = c.ClaveProdServ
	}
	unit := c.Unidad
	if unit == "" {
		unit = c.ClaveUnidad
	}

	return models.CanonicalLineItem{
		SKUOrCode:   code,
		Description: c.Descripcion,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice,
		LineTotal:   lineTotal,
		Category:    p.classifier.Categorize(c.Descripcion),
	}, nil
}

// extractUID pulls the fiscal identifier from the stamp complement.
// Absence yields the UIDMissing sentinel rather than failing the
// document; the caller must flag such invoices as non-deduplicatable.
func extractUID(doc comprobante) string {
	if doc.Complemento != nil && doc.Complemento.Timbre != nil {
		if uid := strings.TrimSpace(doc.Complemento.Timbre.UUID); uid != "" {
			return uid
		}
	}
	return models.UIDMissing
}

// parseDecimalAttr parses a monetary or quantity attribute. The empty
// string is zero; anything else must be a plain decimal string.
func parseDecimalAttr(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q", s)
	}
	return d, nil
}

// ValidateFormat reports whether the data looks like a CFDI comprobante.
// xmlpath matches local element names, so namespaced and bare documents
// both pass.
func ValidateFormat(data []byte) bool {
	root, err := xmlpath.Parse(bytes.NewReader(data))
	if err != nil {
		return false
	}
	if !xmlpath.MustCompile("//Comprobante").Exists(root) {
		return false
	}
	return xmlpath.MustCompile("//Conceptos").Exists(root)
}
