package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costeo/ingesta/internal/ingesterror"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected rune
	}{
		{"comma", "fecha,monto,tienda", ','},
		{"semicolon majority", "fecha;monto;tienda,centro", ';'},
		{"tab", "fecha\tmonto\ttienda", '\t'},
		{"pipe", "fecha|monto|tienda", '|'},
		{"tie resolves to comma", "fecha,monto;x;y,z", ','},
		{"no delimiter at all defaults to comma", "fecha", ','},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, err := Sniff(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, format.Delimiter)
		})
	}
}

func TestSniffStrictMajorityWins(t *testing.T) {
	// Two semicolons against one comma: semicolon has strictly more
	// occurrences and must win despite comma's higher priority.
	format, err := Sniff("a;b;c,d")
	require.NoError(t, err)
	assert.Equal(t, ';', format.Delimiter)
}

func TestSniffHeaderDetection(t *testing.T) {
	header, err := Sniff("fecha,monto_total,tienda")
	require.NoError(t, err)
	assert.True(t, header.HasHeader)
	assert.Equal(t, []string{"fecha", "monto_total", "tienda"}, header.RawColumns)

	data, err := Sniff("2024-09-01,1000.50,Portal Centro")
	require.NoError(t, err)
	assert.False(t, data.HasHeader, "a numeric token means the first line is data")
}

func TestSniffEmptyInput(t *testing.T) {
	_, err := Sniff("")
	require.Error(t, err)
	var formatErr *ingesterror.FormatError
	assert.ErrorAs(t, err, &formatErr)

	_, err = Sniff("   \r\n")
	assert.Error(t, err)
}
