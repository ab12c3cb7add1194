// Package tabular turns mapped tabular rows into canonical records. It
// parses dates and amounts permissively and collects per-row errors
// without ever aborting the batch: Parse always returns (records, errors).
package tabular

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"costeo/ingesta/internal/currencyutils"
	"costeo/ingesta/internal/dateutils"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/textutils"
)

// defaultHeaders preserve backward compatibility with conventional
// layouts: when a field has no mapping, a column whose normalized header
// equals the canonical field name is used instead.
var defaultHeaders = map[string]string{
	models.FieldDate:             "date",
	models.FieldAmount:           "amount",
	models.FieldLocation:         "location",
	models.FieldTransactionCount: "transaction_count",
	models.FieldSupplier:         "supplier",
	models.FieldConcept:          "concept",
	models.FieldItem:             "item",
	models.FieldQuantity:         "quantity",
	models.FieldUnit:             "unit",
	models.FieldUnitCost:         "unit_cost",
}

// Parser consumes rows aligned to one header set for one document kind.
type Parser struct {
	kind    models.DocumentKind
	columns map[string]int
	logger  logging.Logger
}

// NewParser builds a parser for the given kind. The mapping is resolved
// against the original header order once; rows are then addressed by
// column index.
func NewParser(kind models.DocumentKind, mapping models.ColumnMapping, headers []string, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = textutils.NormalizeHeader(h)
	}

	columns := make(map[string]int)
	for field, fallback := range defaultHeaders {
		if header, ok := mapping[field]; ok {
			for i, h := range headers {
				if h == header {
					columns[field] = i
					break
				}
			}
			continue
		}
		for i, norm := range normalized {
			if norm == fallback {
				columns[field] = i
				break
			}
		}
	}

	return &Parser{kind: kind, columns: columns, logger: logger}
}

// Parse converts raw rows into canonical records. firstRowNumber is the
// source row number of rows[0] (header rows included in the count), so
// row errors point at the original file line.
func (p *Parser) Parse(rows [][]string, firstRowNumber int) ([]models.ParsedRecord, []models.RowError) {
	numbers := make([]int, len(rows))
	for i := range rows {
		numbers[i] = firstRowNumber + i
	}
	return p.ParseRows(rows, numbers)
}

// ParseRows is Parse with an explicit source line per row, for readers
// that skip lines while reading (blank lines, for instance) and so
// cannot describe row positions as a contiguous range.
func (p *Parser) ParseRows(rows [][]string, rowNumbers []int) ([]models.ParsedRecord, []models.RowError) {
	var records []models.ParsedRecord
	var errs []models.RowError

	for i, row := range rows {
		rowNum := rowNumbers[i]
		if emptyRow(row) {
			continue
		}

		record, rowErr := p.parseRow(row, rowNum)
		if rowErr != nil {
			errs = append(errs, *rowErr)
			continue
		}
		records = append(records, record)
	}

	p.logger.Debug("parsed tabular rows",
		logging.Field{Key: logging.FieldKind, Value: string(p.kind)},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "row_errors", Value: len(errs)})

	return records, errs
}

// parseRow extracts one record. A row missing a required field yields
// exactly one RowError and no record.
func (p *Parser) parseRow(row []string, rowNum int) (models.ParsedRecord, *models.RowError) {
	record := models.ParsedRecord{Kind: p.kind, SourceRow: rowNum}

	if p.kind == models.KindInventory {
		item := p.cell(row, models.FieldItem)
		if strings.TrimSpace(item) == "" {
			return record, &models.RowError{RowNumber: rowNum, Field: models.FieldItem, Message: "missing item"}
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(p.cell(row, models.FieldQuantity)))
		if err != nil {
			return record, &models.RowError{RowNumber: rowNum, Field: models.FieldQuantity, Message: "unparseable quantity"}
		}
		record.Item = strings.TrimSpace(item)
		record.Quantity = quantity
		record.Unit = strings.TrimSpace(p.cell(row, models.FieldUnit))
		if cost := p.cell(row, models.FieldUnitCost); strings.TrimSpace(cost) != "" {
			if parsed, err := currencyutils.ParseAmount(cost); err == nil {
				record.UnitCost = parsed
			}
		}
		if dateStr := p.cell(row, models.FieldDate); strings.TrimSpace(dateStr) != "" {
			if parsed, err := dateutils.ParseDate(dateStr); err == nil {
				record.Date = parsed
			}
		}
		return record, nil
	}

	date, err := dateutils.ParseDate(p.cell(row, models.FieldDate))
	if err != nil {
		return record, &models.RowError{RowNumber: rowNum, Field: models.FieldDate, Message: err.Error()}
	}
	amount, err := currencyutils.ParseAmount(p.cell(row, models.FieldAmount))
	if err != nil {
		return record, &models.RowError{RowNumber: rowNum, Field: models.FieldAmount, Message: err.Error()}
	}

	record.Date = date
	record.Amount = amount

	switch p.kind {
	case models.KindExpense:
		record.Supplier = p.cellOrDefault(row, models.FieldSupplier, models.LocationUnknown)
		record.Concept = strings.TrimSpace(p.cell(row, models.FieldConcept))
	default:
		record.Location = p.cellOrDefault(row, models.FieldLocation, models.LocationUnknown)
		if countStr := strings.TrimSpace(p.cell(row, models.FieldTransactionCount)); countStr != "" {
			if count, err := strconv.Atoi(countStr); err == nil {
				record.TransactionCount = &count
			}
			// A malformed count is dropped, not an error: the field is
			// optional and defaults to absent.
		}
	}

	return record, nil
}

func (p *Parser) cell(row []string, field string) string {
	idx, ok := p.columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (p *Parser) cellOrDefault(row []string, field, fallback string) string {
	v := strings.TrimSpace(p.cell(row, field))
	if v == "" {
		return fallback
	}
	return v
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
