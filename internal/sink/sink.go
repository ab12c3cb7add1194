// Package sink persists canonical ingestion output. The orchestrator
// only sees the RecordSink interface; the CSV implementation writes one
// file per document so downstream costing jobs can pick them up.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"costeo/ingesta/internal/ingesterror"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

// ResolvedItem is one invoice line item together with its resolution
// outcome. CatalogEntryID is empty when the item stayed unresolved.
type ResolvedItem struct {
	Item           models.CanonicalLineItem
	CatalogEntryID string
	MatchScore     float64
}

// RecordSink receives the canonical output of one ingested document.
type RecordSink interface {
	// WriteRecords persists tabular records.
	WriteRecords(documentID string, records []models.ParsedRecord) error
	// WriteInvoice persists an invoice and its resolved line items.
	WriteInvoice(documentID string, invoice models.CanonicalInvoice, items []ResolvedItem) error
}

// recordRow is the CSV projection of a ParsedRecord.
type recordRow struct {
	Kind             string `csv:"kind"`
	Date             string `csv:"date"`
	Amount           string `csv:"amount"`
	Location         string `csv:"location"`
	TransactionCount string `csv:"transaction_count"`
	Supplier         string `csv:"supplier"`
	Concept          string `csv:"concept"`
	Item             string `csv:"item"`
	Quantity         string `csv:"quantity"`
	Unit             string `csv:"unit"`
	UnitCost         string `csv:"unit_cost"`
	SourceRow        int    `csv:"source_row"`
}

// itemRow is the CSV projection of one resolved invoice line item.
type itemRow struct {
	ExternalUID    string `csv:"external_uid"`
	SupplierTaxID  string `csv:"supplier_tax_id"`
	SupplierName   string `csv:"supplier_name"`
	SKUOrCode      string `csv:"sku_or_code"`
	Description    string `csv:"description"`
	Quantity       string `csv:"quantity"`
	Unit           string `csv:"unit"`
	UnitPrice      string `csv:"unit_price"`
	LineTotal      string `csv:"line_total"`
	Category       string `csv:"category"`
	CatalogEntryID string `csv:"catalog_entry_id"`
	MatchScore     string `csv:"match_score"`
}

// CSVSink writes one CSV file per document under a target directory:
// <document>_records.csv for tabular kinds, <document>_items.csv for
// invoices. The directory is created on first write.
type CSVSink struct {
	dir       string
	delimiter rune
	logger    logging.Logger
}

// NewCSVSink builds a sink writing into dir with the given output
// delimiter.
func NewCSVSink(dir string, delimiter rune, logger logging.Logger) *CSVSink {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVSink{dir: dir, delimiter: delimiter, logger: logger}
}

func (s *CSVSink) WriteRecords(documentID string, records []models.ParsedRecord) error {
	rows := make([]recordRow, 0, len(records))
	for _, r := range records {
		row := recordRow{
			Kind:      string(r.Kind),
			Date:      r.Date.Format("2006-01-02"),
			Amount:    r.Amount.StringFixed(2),
			Location:  r.Location,
			Supplier:  r.Supplier,
			Concept:   r.Concept,
			Item:      r.Item,
			Unit:      r.Unit,
			SourceRow: r.SourceRow,
		}
		if r.TransactionCount != nil {
			row.TransactionCount = fmt.Sprintf("%d", *r.TransactionCount)
		}
		if !r.Quantity.IsZero() {
			row.Quantity = r.Quantity.String()
		}
		if !r.UnitCost.IsZero() {
			row.UnitCost = r.UnitCost.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return s.writeFile(documentID, documentID+"_records.csv", &rows, len(rows))
}

func (s *CSVSink) WriteInvoice(documentID string, invoice models.CanonicalInvoice, items []ResolvedItem) error {
	rows := make([]itemRow, 0, len(items))
	for _, ri := range items {
		row := itemRow{
			ExternalUID:    invoice.ExternalUID,
			SupplierTaxID:  invoice.SupplierTaxID,
			SupplierName:   invoice.SupplierName,
			SKUOrCode:      ri.Item.SKUOrCode,
			Description:    ri.Item.Description,
			Quantity:       ri.Item.Quantity.String(),
			Unit:           ri.Item.Unit,
			UnitPrice:      ri.Item.UnitPrice.StringFixed(2),
			LineTotal:      ri.Item.LineTotal.StringFixed(2),
			Category:       ri.Item.Category,
			CatalogEntryID: ri.CatalogEntryID,
		}
		if ri.CatalogEntryID != "" {
			row.MatchScore = fmt.Sprintf("%.2f", ri.MatchScore)
		}
		rows = append(rows, row)
	}
	return s.writeFile(documentID, documentID+"_items.csv", &rows, len(rows))
}

// writeFile marshals rows to <dir>/<name> with the configured delimiter.
func (s *CSVSink) writeFile(documentID, name string, rows interface{}, count int) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &ingesterror.SinkError{Document: documentID, Err: fmt.Errorf("error creating output directory: %w", err)}
	}

	path := filepath.Join(s.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return &ingesterror.SinkError{Document: documentID, Err: fmt.Errorf("error creating output file: %w", err)}
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close output file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = s.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return &ingesterror.SinkError{Document: documentID, Err: fmt.Errorf("error writing CSV data: %w", err)}
	}

	s.logger.Info("Wrote canonical output",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: logging.FieldCount, Value: count})
	return nil
}
