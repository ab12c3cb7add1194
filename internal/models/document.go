// Package models defines the canonical, schema-fixed representations
// produced by the ingestion pipeline. Source documents are loosely typed;
// everything downstream of the parsers consumes only these models.
package models

// DocumentKind tags a submitted document with one of the closed set of
// shapes the pipeline accepts. The kind is resolved once at ingestion
// entry and never re-inspected downstream.
type DocumentKind string

const (
	// KindAuto lets the orchestrator detect the kind from content.
	KindAuto DocumentKind = "auto"
	// KindSales is a delimited sales extract.
	KindSales DocumentKind = "sales"
	// KindExpense is a delimited expense extract.
	KindExpense DocumentKind = "expense"
	// KindInventory is a delimited inventory extract.
	KindInventory DocumentKind = "inventory"
	// KindInvoiceXML is a CFDI tax-invoice XML document.
	KindInvoiceXML DocumentKind = "invoice_xml"
	// KindInvoiceJSON is a flat key/value invoice export with the same
	// logical fields as the XML form, pre-extracted.
	KindInvoiceJSON DocumentKind = "invoice_json"
)

// IsTabular reports whether the kind is one of the delimited extracts.
func (k DocumentKind) IsTabular() bool {
	return k == KindSales || k == KindExpense || k == KindInventory
}

// IsInvoice reports whether the kind carries invoice semantics and is
// therefore subject to deduplication and entity resolution.
func (k DocumentKind) IsInvoice() bool {
	return k == KindInvoiceXML || k == KindInvoiceJSON
}
