package colmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costeo/ingesta/internal/models"
)

func TestMapSalesHeaders(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		confidence models.MappingConfidence
		expected   models.ColumnMapping
	}{
		{
			name:       "spanish aliases",
			headers:    []string{"fecha", "monto_total", "tienda"},
			confidence: models.ConfidenceHigh,
			expected: models.ColumnMapping{
				models.FieldDate:     "fecha",
				models.FieldAmount:   "monto_total",
				models.FieldLocation: "tienda",
			},
		},
		{
			name:       "english with count",
			headers:    []string{"Date", "Amount", "Store", "Transactions"},
			confidence: models.ConfidenceHigh,
			expected: models.ColumnMapping{
				models.FieldDate:             "Date",
				models.FieldAmount:           "Amount",
				models.FieldLocation:         "Store",
				models.FieldTransactionCount: "Transactions",
			},
		},
		{
			name:       "accents and separators",
			headers:    []string{"Día de Venta", "Importe Total", "Sucursal Centro"},
			confidence: models.ConfidenceHigh,
			expected: models.ColumnMapping{
				models.FieldDate:     "Día de Venta",
				models.FieldAmount:   "Importe Total",
				models.FieldLocation: "Sucursal Centro",
			},
		},
		{
			name:       "required present but only two matched",
			headers:    []string{"fecha", "monto", "zzz"},
			confidence: models.ConfidenceMedium,
			expected: models.ColumnMapping{
				models.FieldDate:   "fecha",
				models.FieldAmount: "monto",
			},
		},
		{
			name:       "missing amount is low",
			headers:    []string{"fecha", "tienda", "transacciones"},
			confidence: models.ConfidenceLow,
			expected: models.ColumnMapping{
				models.FieldDate:             "fecha",
				models.FieldLocation:         "tienda",
				models.FieldTransactionCount: "transacciones",
			},
		},
		{
			name:       "nothing recognizable",
			headers:    []string{"aaa", "bbb"},
			confidence: models.ConfidenceLow,
			expected:   models.ColumnMapping{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapping, confidence := New(models.KindSales).Map(tc.headers)
			assert.Equal(t, tc.expected, mapping)
			assert.Equal(t, tc.confidence, confidence)
		})
	}
}

func TestMapHeaderNotReassigned(t *testing.T) {
	// "total" satisfies the amount pattern; the second header must not be
	// stolen by a later field even though it also contains "venta".
	mapping, _ := New(models.KindSales).Map([]string{"fecha", "total venta"})
	assert.Equal(t, "total venta", mapping[models.FieldAmount])
	_, hasLocation := mapping[models.FieldLocation]
	assert.False(t, hasLocation)
}

func TestMapExpenseAndInventoryKinds(t *testing.T) {
	expense, conf := New(models.KindExpense).Map([]string{"fecha", "gasto", "proveedor", "concepto"})
	assert.Equal(t, models.ConfidenceHigh, conf)
	assert.Equal(t, "proveedor", expense[models.FieldSupplier])
	assert.Equal(t, "concepto", expense[models.FieldConcept])

	inventory, conf := New(models.KindInventory).Map([]string{"articulo", "cantidad", "unidad", "costo"})
	assert.Equal(t, models.ConfidenceHigh, conf)
	assert.Equal(t, "articulo", inventory[models.FieldItem])
	assert.Equal(t, "cantidad", inventory[models.FieldQuantity])
}

func TestOverrideBypassesDetection(t *testing.T) {
	manual := models.ColumnMapping{models.FieldDate: "col_a", models.FieldAmount: "col_b"}
	mapping, confidence := New(models.KindSales).Override(manual)
	assert.Equal(t, models.ConfidenceHigh, confidence)
	assert.Equal(t, manual, mapping)
}
