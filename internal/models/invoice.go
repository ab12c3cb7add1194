package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UIDMissing is the sentinel external UID for an invoice whose fiscal
// stamp carries no identifier. Callers must treat it as "cannot
// deduplicate" and flag the document accordingly.
const UIDMissing = "N/A"

// CategoryNone is the sentinel category for a line item no taxonomy
// keyword matched.
const CategoryNone = "uncategorized"

// lineTotalTolerance is the rounding slack allowed between the stated
// line total and quantity * unit price.
var lineTotalTolerance = decimal.NewFromFloat(0.01)

// CanonicalInvoice is the normalized invoice model shared by the XML and
// the flat JSON invoice forms.
type CanonicalInvoice struct {
	ExternalUID   string              `json:"external_uid" yaml:"external_uid"`
	IssueDate     time.Time           `json:"issue_date" yaml:"issue_date"`
	SupplierTaxID string              `json:"supplier_tax_id" yaml:"supplier_tax_id"`
	SupplierName  string              `json:"supplier_name" yaml:"supplier_name"`
	Currency      string              `json:"currency" yaml:"currency"`
	Subtotal      decimal.Decimal     `json:"subtotal" yaml:"subtotal"`
	Tax           decimal.Decimal     `json:"tax" yaml:"tax"`
	Total         decimal.Decimal     `json:"total" yaml:"total"`
	LineItems     []CanonicalLineItem `json:"line_items" yaml:"line_items"`
}

// HasUID reports whether the invoice carries a usable fiscal identifier.
func (inv CanonicalInvoice) HasUID() bool {
	return inv.ExternalUID != "" && inv.ExternalUID != UIDMissing
}

// CanonicalLineItem is one invoice line in canonical form. Category is
// assigned by the categorizer before entity resolution runs.
type CanonicalLineItem struct {
	SKUOrCode   string          `json:"sku_or_code" yaml:"sku_or_code"`
	Description string          `json:"description" yaml:"description"`
	Quantity    decimal.Decimal `json:"quantity" yaml:"quantity"`
	Unit        string          `json:"unit" yaml:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total" yaml:"line_total"`
	Category    string          `json:"category" yaml:"category"`
}

// LineTotalConsistent reports whether the stated line total equals
// quantity * unit price within the rounding tolerance. Violations are
// reported, never silently corrected.
func (li CanonicalLineItem) LineTotalConsistent() bool {
	expected := li.Quantity.Mul(li.UnitPrice)
	return li.LineTotal.Sub(expected).Abs().LessThanOrEqual(lineTotalTolerance)
}

// ValidateLineTotals returns one RowError per line item whose stated
// total disagrees with quantity * unit price.
func (inv CanonicalInvoice) ValidateLineTotals() []RowError {
	var errs []RowError
	for i, li := range inv.LineItems {
		if !li.LineTotalConsistent() {
			errs = append(errs, RowError{
				RowNumber: i + 1,
				Field:     "line_total",
				Message:   "line total does not equal quantity * unit price",
			})
		}
	}
	return errs
}
