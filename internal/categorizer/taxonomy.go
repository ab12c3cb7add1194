package categorizer

// Category is one taxonomy bucket with its keyword substrings. Keywords
// are matched case- and accent-insensitively against normalized
// line-item descriptions.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultTaxonomy is the fixed, ordered restaurant-supply taxonomy.
// Declaration order is matching priority: the first category with any
// keyword contained in the description wins.
func DefaultTaxonomy() []Category {
	return []Category{
		{Name: "lacteos", Keywords: []string{
			"queso", "leche", "crema", "mantequilla", "yogur", "lacteo",
		}},
		{Name: "carnes", Keywords: []string{
			"pollo", "cerdo", "carne", "arrachera", "pechuga",
			"chuleta", "tocino", "jamon", "chorizo", "molida",
		}},
		{Name: "pescados_mariscos", Keywords: []string{
			"pescado", "camaron", "atun", "salmon", "marisco", "pulpo", "mojarra",
		}},
		{Name: "frutas_verduras", Keywords: []string{
			"tomate", "jitomate", "cebolla", "lechuga", "aguacate", "limon",
			"papa", "chile", "cilantro", "zanahoria", "fruta", "verdura",
		}},
		{Name: "abarrotes", Keywords: []string{
			"arroz", "frijol", "harina", "aceite", "azucar",
			"pasta", "tortilla", "pan", "mayonesa", "salsa", "consome",
		}},
		{Name: "bebidas", Keywords: []string{
			"refresco", "agua", "cerveza", "vino", "jugo", "cafe", "bebida", "hielo",
		}},
		{Name: "desechables", Keywords: []string{
			"desechable", "vaso", "servilleta", "popote", "contenedor",
			"bolsa", "charola", "plato desechable",
		}},
		{Name: "limpieza", Keywords: []string{
			"cloro", "jabon", "detergente", "limpiador", "fibra", "escoba", "trapeador",
		}},
		{Name: "servicios", Keywords: []string{
			"gas lp", "gas estacionario", "electricidad", "renta", "internet", "mantenimiento",
		}},
	}
}
