// Package colmap matches normalized column headers against per-field
// keyword pattern sets, producing a field-to-header mapping plus a
// confidence tier. There is no fixed schema; the pattern sets carry the
// localized aliases seen in operator extracts.
package colmap

import (
	"strings"

	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/textutils"
)

// fieldPatterns binds one canonical field to its keyword aliases.
// Patterns are stored normalized.
type fieldPatterns struct {
	field    string
	patterns []string
}

// Pattern sets per document kind. Field declaration order matters: a
// header is assigned to the first field it satisfies and never reassigned.
var (
	salesFields = []fieldPatterns{
		{models.FieldDate, []string{"date", "fecha", "dia", "day"}},
		{models.FieldAmount, []string{"amount", "monto", "total", "venta", "ventas", "importe", "ingreso"}},
		{models.FieldLocation, []string{"location", "tienda", "sucursal", "local", "store", "plaza"}},
		{models.FieldTransactionCount, []string{"count", "transacciones", "transactions", "tickets", "operaciones", "folios"}},
	}

	expenseFields = []fieldPatterns{
		{models.FieldDate, []string{"date", "fecha", "dia", "day"}},
		{models.FieldAmount, []string{"amount", "monto", "total", "gasto", "importe", "egreso"}},
		{models.FieldSupplier, []string{"supplier", "proveedor", "vendor"}},
		{models.FieldConcept, []string{"concept", "concepto", "descripcion", "description", "detalle"}},
	}

	inventoryFields = []fieldPatterns{
		{models.FieldDate, []string{"date", "fecha", "dia", "day"}},
		{models.FieldItem, []string{"item", "articulo", "producto", "ingrediente", "insumo"}},
		{models.FieldQuantity, []string{"quantity", "cantidad", "qty", "existencia"}},
		{models.FieldUnit, []string{"unit", "unidad", "medida"}},
		{models.FieldUnitCost, []string{"cost", "costo", "costo_unitario", "precio", "price"}},
	}

	// requiredFields drive the confidence tier and the tolerant parser's
	// required-field policy.
	requiredFields = map[models.DocumentKind][]string{
		models.KindSales:     {models.FieldDate, models.FieldAmount},
		models.KindExpense:   {models.FieldDate, models.FieldAmount},
		models.KindInventory: {models.FieldItem, models.FieldQuantity},
	}
)

// Mapper detects the column layout for one tabular document kind.
type Mapper struct {
	kind   models.DocumentKind
	fields []fieldPatterns
}

// New returns a mapper for the given tabular kind. Unknown kinds fall
// back to the sales field set.
func New(kind models.DocumentKind) *Mapper {
	fields := salesFields
	switch kind {
	case models.KindExpense:
		fields = expenseFields
	case models.KindInventory:
		fields = inventoryFields
	}
	return &Mapper{kind: kind, fields: fields}
}

// Map matches the raw headers against the kind's pattern sets. For each
// field, the first header (in input order) whose normalized form matches
// a pattern exactly, or contains a pattern, or is contained by a pattern,
// wins. A header assigned to one field is not reassigned to another.
func (m *Mapper) Map(headers []string) (models.ColumnMapping, models.MappingConfidence) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = textutils.NormalizeHeader(h)
	}

	mapping := models.ColumnMapping{}
	taken := make([]bool, len(headers))

	for _, fp := range m.fields {
		for i, norm := range normalized {
			if taken[i] || norm == "" {
				continue
			}
			if matchesAny(norm, fp.patterns) {
				mapping[fp.field] = headers[i]
				taken[i] = true
				break
			}
		}
	}

	return mapping, models.ConfidenceFor(len(mapping), m.requiredPresent(mapping))
}

// Override returns the caller-supplied manual mapping, bypassing
// detection entirely. Manual mappings are trusted as high confidence.
func (m *Mapper) Override(manual models.ColumnMapping) (models.ColumnMapping, models.MappingConfidence) {
	mapping := models.ColumnMapping{}
	for field, header := range manual {
		mapping[field] = header
	}
	return mapping, models.ConfidenceHigh
}

// RequiredFields exposes the kind's required canonical fields.
func (m *Mapper) RequiredFields() []string {
	return requiredFields[m.kind]
}

func (m *Mapper) requiredPresent(mapping models.ColumnMapping) bool {
	for _, f := range requiredFields[m.kind] {
		if _, ok := mapping[f]; !ok {
			return false
		}
	}
	return true
}

func matchesAny(header string, patterns []string) bool {
	for _, p := range patterns {
		if header == p {
			return true
		}
	}
	for _, p := range patterns {
		if strings.Contains(header, p) || strings.Contains(p, header) {
			return true
		}
	}
	return false
}
