package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

func TestCategorize(t *testing.T) {
	c := New(&logging.MockLogger{})

	tests := []struct {
		description string
		expected    string
	}{
		{"QUESO MANCHEGO", "lacteos"},
		{"Pechuga de pollo 2kg", "carnes"},
		{"Camarón pacotilla", "pescados_mariscos"},
		{"Jitomate saladet", "frutas_verduras"},
		{"Aguacate hass", "frutas_verduras"},
		{"Aceite vegetal 20L", "abarrotes"},
		{"Refresco cola 600ml", "bebidas"},
		{"Vasos desechables 12oz", "desechables"},
		{"Cloro 5L", "limpieza"},
		{"Recarga gas LP", "servicios"},
		{"Tornillos 3/4", models.CategoryNone},
		{"", models.CategoryNone},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Categorize(tc.description))
		})
	}
}

// Declaration order is the tie-break: "aguacate" also contains "agua"
// but frutas_verduras is declared before bebidas.
func TestCategorizeOrderWins(t *testing.T) {
	c := New(&logging.MockLogger{})
	assert.Equal(t, "frutas_verduras", c.Categorize("AGUACATE"))
	assert.Equal(t, "bebidas", c.Categorize("agua embotellada"))
}

func TestCategorizeCustomTaxonomy(t *testing.T) {
	custom := []Category{
		{Name: "panaderia", Keywords: []string{"Bolillo", "Baguette"}},
	}
	c := NewWithTaxonomy(custom, &logging.MockLogger{})
	assert.Equal(t, "panaderia", c.Categorize("bolillo blanco"))
	assert.Equal(t, models.CategoryNone, c.Categorize("queso"))
}

func TestCategorizeIsDeterministic(t *testing.T) {
	c := New(&logging.MockLogger{})
	first := c.Categorize("crema para batir")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Categorize("crema para batir"))
	}
	assert.Equal(t, "lacteos", first)
}
