package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "FECHA", "fecha"},
		{"diacritics", "Día de Venta", "dia_de_venta"},
		{"hyphens", "monto-total", "monto_total"},
		{"mixed separators", "Monto  -_ Total", "monto_total"},
		{"leading and trailing space", "  tienda  ", "tienda"},
		{"empty", "", ""},
		{"only separators", " -_ ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeHeader(tc.input))
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Almacen", StripDiacritics("Almacén"))
	assert.Equal(t, "arandano", StripDiacritics("arándano"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "queso manchego", NormalizeText("  QUESO   Manchego "))
	assert.Equal(t, "cafe de olla", NormalizeText("Café de Olla"))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Queso Manchego de Cabra, 500g", 3)
	assert.Equal(t, []string{"queso", "manchego", "cabra", "500g"}, tokens)

	assert.Empty(t, Tokenize("a b c", 3))
}
