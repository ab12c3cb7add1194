package cfdi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costeo/ingesta/internal/categorizer"
	"costeo/ingesta/internal/ingesterror"
	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

const sampleNamespaced = `<?xml version="1.0" encoding="UTF-8"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Version="4.0"
  Fecha="2024-09-01T11:22:33" Moneda="MXN" SubTotal="950.00" Total="1102.00">
  <cfdi:Emisor Rfc="QME850101AAA" Nombre="Quesos La Mesa SA de CV"/>
  <cfdi:Conceptos>
    <cfdi:Concepto NoIdentificacion="QM-001" Cantidad="10" Unidad="KG"
      Descripcion="QUESO MANCHEGO" ValorUnitario="80.00" Importe="800.00"/>
    <cfdi:Concepto ClaveProdServ="50131700" Cantidad="5" ClaveUnidad="LTR"
      Descripcion="CREMA ACIDA" ValorUnitario="30.00" Importe="150.00"/>
  </cfdi:Conceptos>
  <cfdi:Impuestos TotalImpuestosTrasladados="152.00"/>
  <cfdi:Complemento>
    <tfd:TimbreFiscalDigital xmlns:tfd="http://www.sat.gob.mx/TimbreFiscalDigital"
      UUID="AAAA1111-BB22-CC33-DD44-EEEE55556666"/>
  </cfdi:Complemento>
</cfdi:Comprobante>`

const sampleBare = `<Comprobante Fecha="2024-09-01" Moneda="MXN" SubTotal="100.00" Total="116.00">
  <Emisor Rfc="ABC010101XYZ" Nombre="Proveedor Simple"/>
  <Conceptos>
    <Concepto NoIdentificacion="P-1" Cantidad="2" Unidad="PZA"
      Descripcion="Aceite vegetal" ValorUnitario="50.00" Importe="100.00"/>
  </Conceptos>
</Comprobante>`

func newTestParser() *Parser {
	return NewParser(categorizer.New(&logging.MockLogger{}), &logging.MockLogger{})
}

func TestParseXMLNamespaced(t *testing.T) {
	invoice, err := newTestParser().ParseXML([]byte(sampleNamespaced), "factura.xml")
	require.NoError(t, err)

	assert.Equal(t, "AAAA1111-BB22-CC33-DD44-EEEE55556666", invoice.ExternalUID)
	assert.True(t, invoice.HasUID())
	assert.Equal(t, "QME850101AAA", invoice.SupplierTaxID)
	assert.Equal(t, "Quesos La Mesa SA de CV", invoice.SupplierName)
	assert.Equal(t, "MXN", invoice.Currency)
	assert.Equal(t, "2024-09-01", invoice.IssueDate.Format("2006-01-02"))
	assert.True(t, decimal.RequireFromString("950.00").Equal(invoice.Subtotal))
	assert.True(t, decimal.RequireFromString("152.00").Equal(invoice.Tax))
	assert.True(t, decimal.RequireFromString("1102.00").Equal(invoice.Total))

	require.Len(t, invoice.LineItems, 2)
	first := invoice.LineItems[0]
	assert.Equal(t, "QM-001", first.SKUOrCode)
	assert.Equal(t, "QUESO MANCHEGO", first.Description)
	assert.Equal(t, "KG", first.Unit)
	assert.Equal(t, "lacteos", first.Category)
	assert.True(t, first.LineTotalConsistent())

	// ClaveProdServ and ClaveUnidad back-fill missing code and unit.
	second := invoice.LineItems[1]
	assert.Equal(t, "50131700", second.SKUOrCode)
	assert.Equal(t, "LTR", second.Unit)
}

func TestParseXMLBareForm(t *testing.T) {
	invoice, err := newTestParser().ParseXML([]byte(sampleBare), "factura.xml")
	require.NoError(t, err)
	assert.Equal(t, "Proveedor Simple", invoice.SupplierName)
	require.Len(t, invoice.LineItems, 1)
	assert.Equal(t, "abarrotes", invoice.LineItems[0].Category)
}

func TestParseXMLMissingStampYieldsSentinel(t *testing.T) {
	invoice, err := newTestParser().ParseXML([]byte(sampleBare), "factura.xml")
	require.NoError(t, err)
	assert.Equal(t, models.UIDMissing, invoice.ExternalUID)
	assert.False(t, invoice.HasUID())
}

func TestParseXMLStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"missing issuer", `<Comprobante><Conceptos><Concepto Cantidad="1" ValorUnitario="1" Importe="1"/></Conceptos></Comprobante>`},
		{"missing line items", `<Comprobante><Emisor Rfc="X" Nombre="X"/></Comprobante>`},
		{"empty line items", `<Comprobante><Emisor Rfc="X"/><Conceptos></Conceptos></Comprobante>`},
		{"not xml", `{"this": "is json"}`},
		{"bad decimal", `<Comprobante><Emisor Rfc="X"/><Conceptos><Concepto Cantidad="abc" ValorUnitario="1" Importe="1"/></Conceptos></Comprobante>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestParser().ParseXML([]byte(tc.xml), "bad.xml")
			require.Error(t, err)
			var structErr *ingesterror.StructureError
			assert.ErrorAs(t, err, &structErr)
		})
	}
}

func TestValidateFormat(t *testing.T) {
	assert.True(t, ValidateFormat([]byte(sampleNamespaced)))
	assert.True(t, ValidateFormat([]byte(sampleBare)))
	assert.False(t, ValidateFormat([]byte("fecha,monto\n2024-09-01,10")))
	assert.False(t, ValidateFormat([]byte("<Other><Doc/></Other>")))
}

func TestParseJSONMatchesXMLShape(t *testing.T) {
	flat := `{
	  "external_uid": "AAAA1111-BB22-CC33-DD44-EEEE55556666",
	  "issue_date": "2024-09-01",
	  "supplier_tax_id": "QME850101AAA",
	  "supplier_name": "Quesos La Mesa SA de CV",
	  "currency": "MXN",
	  "subtotal": "950.00",
	  "tax": 152.00,
	  "total": "1102.00",
	  "line_items": [
	    {"sku_or_code": "QM-001", "description": "QUESO MANCHEGO",
	     "quantity": 10, "unit": "KG", "unit_price": "80.00", "line_total": "800.00"}
	  ]
	}`

	invoice, err := newTestParser().ParseJSON([]byte(flat), "factura.json")
	require.NoError(t, err)
	assert.Equal(t, "AAAA1111-BB22-CC33-DD44-EEEE55556666", invoice.ExternalUID)
	assert.Equal(t, "MXN", invoice.Currency)
	require.Len(t, invoice.LineItems, 1)
	assert.Equal(t, "lacteos", invoice.LineItems[0].Category)
	assert.True(t, invoice.LineItems[0].LineTotalConsistent())
}

func TestParseJSONStructureErrors(t *testing.T) {
	_, err := newTestParser().ParseJSON([]byte(`{"supplier_name":"X"}`), "f.json")
	var structErr *ingesterror.StructureError
	require.ErrorAs(t, err, &structErr)

	_, err = newTestParser().ParseJSON([]byte(`not json`), "f.json")
	assert.ErrorAs(t, err, &structErr)

	_, err = newTestParser().ParseJSON([]byte(`{"line_items":[{"description":"x"}]}`), "f.json")
	assert.ErrorAs(t, err, &structErr)
}

func TestParseJSONMissingUIDSentinel(t *testing.T) {
	flat := `{"supplier_name": "X", "line_items": [{"description": "queso", "quantity": 1, "unit_price": 1, "line_total": 1}]}`
	invoice, err := newTestParser().ParseJSON([]byte(flat), "f.json")
	require.NoError(t, err)
	assert.Equal(t, models.UIDMissing, invoice.ExternalUID)
}
