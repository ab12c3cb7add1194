// Package ingest sequences the pipeline per submitted document: kind
// detection, format sniffing, column mapping, tolerant parsing, invoice
// parsing, deduplication, entity resolution and persistence. Documents
// in a batch are processed strictly one at a time so that duplicate
// checks and learned mappings from document N are visible to N+1.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"

	"costeo/ingesta/internal/cfdi"
	"costeo/ingesta/internal/colmap"
	"costeo/ingesta/internal/ingesterror"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/resolver"
	"costeo/ingesta/internal/sink"
	"costeo/ingesta/internal/sniffer"
	"costeo/ingesta/internal/store"
	"costeo/ingesta/internal/tabular"
)

// Document is one submission. Kind may be KindAuto (or empty) to let the
// orchestrator detect the shape from content. ManualMapping, when
// non-empty, bypasses column auto-detection for tabular kinds.
type Document struct {
	ID            string
	TenantID      string
	Kind          models.DocumentKind
	Data          []byte
	ManualMapping models.ColumnMapping
}

// Options tune document-level policy.
type Options struct {
	// RejectMissingUID rejects invoices that carry no fiscal identifier
	// instead of ingesting them as non-deduplicatable.
	RejectMissingUID bool
}

// Orchestrator runs the pipeline. It holds no per-document state and may
// be reused across batches.
type Orchestrator struct {
	catalog  store.CatalogReader
	dupes    store.DuplicateIndex
	invoices *cfdi.Parser
	resolver *resolver.Engine
	sink     sink.RecordSink
	opts     Options
	logger   logging.Logger
}

// New wires the orchestrator to its collaborators.
func New(catalog store.CatalogReader, dupes store.DuplicateIndex, invoices *cfdi.Parser,
	res *resolver.Engine, snk sink.RecordSink, opts Options, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Orchestrator{
		catalog:  catalog,
		dupes:    dupes,
		invoices: invoices,
		resolver: res,
		sink:     snk,
		opts:     opts,
		logger:   logger,
	}
}

// IngestBatch processes documents strictly in order and returns one
// result per document. A rejected or failed document never aborts the
// rest of the batch.
func (o *Orchestrator) IngestBatch(ctx context.Context, docs []Document) []models.IngestionResult {
	results := make([]models.IngestionResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, o.Ingest(ctx, doc))
	}
	return results
}

// Ingest runs one document through the pipeline and always returns a
// terminal IngestionResult.
func (o *Orchestrator) Ingest(ctx context.Context, doc Document) models.IngestionResult {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	kind := doc.Kind
	if kind == "" || kind == models.KindAuto {
		kind = DetectKind(doc.Data)
	}

	o.logger.Info("Ingesting document",
		logging.Field{Key: logging.FieldDocument, Value: doc.ID},
		logging.Field{Key: logging.FieldTenant, Value: doc.TenantID},
		logging.Field{Key: logging.FieldKind, Value: string(kind)})

	var result models.IngestionResult
	switch {
	case kind.IsInvoice():
		result = o.ingestInvoice(ctx, doc, kind)
	case kind.IsTabular():
		result = o.ingestTabular(doc, kind)
	default:
		result = models.IngestionResult{
			DocumentID: doc.ID,
			Kind:       kind,
			Status:     models.StatusRejectedStructure,
			Error:      "unrecognized document shape",
		}
	}

	o.logger.Info("Document finished",
		logging.Field{Key: logging.FieldDocument, Value: doc.ID},
		logging.Field{Key: "status", Value: string(result.Status)},
		logging.Field{Key: logging.FieldCount, Value: result.RecordsProcessed})
	return result
}

// ingestTabular handles the delimited kinds. Tabular documents have no
// document-level identifier, so the dedup stage is passed through.
func (o *Orchestrator) ingestTabular(doc Document, kind models.DocumentKind) models.IngestionResult {
	result := models.IngestionResult{DocumentID: doc.ID, Kind: kind}

	format, err := sniffer.Sniff(firstLine(doc.Data))
	if err != nil {
		result.Status = models.StatusRejectedStructure
		result.Error = err.Error()
		return result
	}

	reader := csv.NewReader(bytes.NewReader(stripBOM(doc.Data)))
	reader.Comma = format.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	// Read record by record: the reader skips blank lines, so each row's
	// source line has to be captured as it is read or row errors would
	// point at the wrong line in files with blank lines in the middle.
	var rows [][]string
	var lines []int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Status = models.StatusRejectedStructure
			result.Error = fmt.Sprintf("unreadable delimited data: %v", err)
			return result
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		result.Status = models.StatusRejectedStructure
		result.Error = "no rows in document"
		return result
	}

	headers := canonicalHeaders(kind)
	dataRows := rows
	dataLines := lines
	if format.HasHeader {
		headers = rows[0]
		dataRows = rows[1:]
		dataLines = lines[1:]
	}

	mapper := colmap.New(kind)
	var mapping models.ColumnMapping
	var confidence models.MappingConfidence
	if len(doc.ManualMapping) > 0 {
		mapping, confidence = mapper.Override(doc.ManualMapping)
	} else {
		mapping, confidence = mapper.Map(headers)
	}
	if confidence == models.ConfidenceLow {
		mapErr := &ingesterror.MappingError{
			Document:   doc.ID,
			Confidence: string(confidence),
			Matched:    len(mapping),
		}
		result.Status = models.StatusRejectedStructure
		result.Error = mapErr.Error()
		return result
	}

	o.logger.Debug("column mapping resolved",
		logging.Field{Key: logging.FieldDocument, Value: doc.ID},
		logging.Field{Key: "confidence", Value: string(confidence)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(format.Delimiter)})

	parser := tabular.NewParser(kind, mapping, headers, o.logger)
	records, rowErrs := parser.ParseRows(dataRows, dataLines)
	result.RowErrors = rowErrs

	if err := o.sink.WriteRecords(doc.ID, records); err != nil {
		result.Status = models.StatusFailed
		result.Error = err.Error()
		return result
	}

	result.RecordsProcessed = len(records)
	result.Status = models.StatusSuccess
	if len(rowErrs) > 0 {
		result.Status = models.StatusPartial
	}
	return result
}

// ingestInvoice handles both invoice forms. The duplicate check runs
// before any line-item resolution, so a known duplicate costs no
// resolution work and writes no learned mappings.
func (o *Orchestrator) ingestInvoice(ctx context.Context, doc Document, kind models.DocumentKind) models.IngestionResult {
	result := models.IngestionResult{DocumentID: doc.ID, Kind: kind}

	var invoice models.CanonicalInvoice
	var err error
	if kind == models.KindInvoiceXML {
		if !cfdi.ValidateFormat(doc.Data) {
			result.Status = models.StatusRejectedStructure
			result.Error = "document is not a recognizable comprobante"
			return result
		}
		invoice, err = o.invoices.ParseXML(doc.Data, doc.ID)
	} else {
		invoice, err = o.invoices.ParseJSON(doc.Data, doc.ID)
	}
	if err != nil {
		result.Status = models.StatusRejectedStructure
		result.Error = err.Error()
		return result
	}

	// Line-total inconsistencies are reported, never corrected.
	result.RowErrors = invoice.ValidateLineTotals()

	if invoice.HasUID() {
		result.Deduplicable = true
		seen, err := o.dupes.Exists(ctx, doc.TenantID, invoice.ExternalUID)
		if err != nil {
			result.Status = models.StatusFailed
			result.Error = err.Error()
			return result
		}
		if seen {
			dupErr := &ingesterror.DuplicateError{TenantID: doc.TenantID, ExternalUID: invoice.ExternalUID}
			result.Status = models.StatusRejectedDuplicate
			result.Error = dupErr.Error()
			return result
		}
	} else {
		if o.opts.RejectMissingUID {
			result.Status = models.StatusRejectedStructure
			result.Error = "invoice carries no fiscal identifier"
			return result
		}
		o.logger.Warn("invoice has no fiscal identifier, skipping duplicate check",
			logging.Field{Key: logging.FieldDocument, Value: doc.ID})
	}

	entries, err := o.catalog.ListEntries(ctx, doc.TenantID)
	if err != nil {
		result.Status = models.StatusFailed
		result.Error = err.Error()
		return result
	}

	items := make([]sink.ResolvedItem, 0, len(invoice.LineItems))
	for _, li := range invoice.LineItems {
		match, err := o.resolver.ResolveAgainst(ctx, doc.TenantID, li, entries)
		if err != nil {
			result.Status = models.StatusFailed
			result.Error = err.Error()
			return result
		}
		item := sink.ResolvedItem{Item: li}
		if match != nil {
			item.CatalogEntryID = match.Entry.ID
			item.MatchScore = match.Score
		} else {
			result.UnmatchedItems = append(result.UnmatchedItems, li.Description)
		}
		items = append(items, item)
	}

	if err := o.sink.WriteInvoice(doc.ID, invoice, items); err != nil {
		result.Status = models.StatusFailed
		result.Error = err.Error()
		return result
	}
	if result.Deduplicable {
		if err := o.dupes.Record(ctx, doc.TenantID, invoice.ExternalUID); err != nil {
			result.Status = models.StatusFailed
			result.Error = err.Error()
			return result
		}
	}

	result.RecordsProcessed = len(items)
	result.Status = models.StatusSuccess
	if len(result.UnmatchedItems) > 0 || len(result.RowErrors) > 0 {
		result.Status = models.StatusPartial
	}
	return result
}
