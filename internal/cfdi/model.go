package cfdi

import "encoding/xml"

// XML document model for a CFDI comprobante. Field tags carry no
// namespace prefix on purpose: encoding/xml then matches the local name,
// so both the namespaced (cfdi:Comprobante) and the bare form of the
// document are accepted.
type comprobante struct {
	XMLName     xml.Name     `xml:"Comprobante"`
	Version     string       `xml:"Version,attr"`
	Fecha       string       `xml:"Fecha,attr"`
	Moneda      string       `xml:"Moneda,attr"`
	SubTotal    string       `xml:"SubTotal,attr"`
	Total       string       `xml:"Total,attr"`
	Emisor      *emisor      `xml:"Emisor"`
	Conceptos   *conceptos   `xml:"Conceptos"`
	Impuestos   *impuestos   `xml:"Impuestos"`
	Complemento *complemento `xml:"Complemento"`
}

type emisor struct {
	Rfc    string `xml:"Rfc,attr"`
	Nombre string `xml:"Nombre,attr"`
}

type conceptos struct {
	Conceptos []concepto `xml:"Concepto"`
}

type concepto struct {
	ClaveProdServ    string `xml:"ClaveProdServ,attr"`
	NoIdentificacion string `xml:"NoIdentificacion,attr"`
	Cantidad         string `xml:"Cantidad,attr"`
	ClaveUnidad      string `xml:"ClaveUnidad,attr"`
	Unidad           string `xml:"Unidad,attr"`
	Descripcion      string `xml:"Descripcion,attr"`
	ValorUnitario    string `xml:"ValorUnitario,attr"`
	Importe          string `xml:"Importe,attr"`
}

type impuestos struct {
	TotalImpuestosTrasladados string `xml:"TotalImpuestosTrasladados,attr"`
}

type complemento struct {
	Timbre *timbreFiscalDigital `xml:"TimbreFiscalDigital"`
}

type timbreFiscalDigital struct {
	UUID string `xml:"UUID,attr"`
}
