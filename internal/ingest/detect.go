package ingest

import (
	"bytes"

	"costeo/ingesta/internal/colmap"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/sniffer"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// tabularKinds in detection priority order.
var tabularKinds = []models.DocumentKind{models.KindSales, models.KindExpense, models.KindInventory}

// canonicalFieldOrder drives the positional fallback for headerless
// files: columns are assumed to follow the conventional layout for the
// kind.
var canonicalFieldOrder = map[models.DocumentKind][]string{
	models.KindSales:     {models.FieldDate, models.FieldAmount, models.FieldLocation, models.FieldTransactionCount},
	models.KindExpense:   {models.FieldDate, models.FieldAmount, models.FieldSupplier, models.FieldConcept},
	models.KindInventory: {models.FieldDate, models.FieldItem, models.FieldQuantity, models.FieldUnit, models.FieldUnitCost},
}

// DetectKind classifies raw document bytes into one of the accepted
// shapes. Markup yields the XML invoice kind, a JSON object the flat
// invoice kind; anything else is treated as delimited text and the
// tabular kind is inferred from the header row.
func DetectKind(data []byte) models.DocumentKind {
	trimmed := bytes.TrimSpace(stripBOM(data))
	if len(trimmed) == 0 {
		return models.KindSales
	}
	switch trimmed[0] {
	case '<':
		return models.KindInvoiceXML
	case '{':
		return models.KindInvoiceJSON
	}
	return detectTabularKind(data)
}

// detectTabularKind maps the header row against each tabular kind's
// pattern set and picks the kind with the most matched fields among
// those whose required fields are all present. Nothing qualifying falls
// back to sales, whose mapping confidence then decides the outcome.
func detectTabularKind(data []byte) models.DocumentKind {
	format, err := sniffer.Sniff(firstLine(data))
	if err != nil || !format.HasHeader {
		return models.KindSales
	}

	best := models.KindSales
	bestMatched := -1
	for _, kind := range tabularKinds {
		mapping, confidence := colmap.New(kind).Map(format.RawColumns)
		if confidence == models.ConfidenceLow {
			continue
		}
		if len(mapping) > bestMatched {
			best = kind
			bestMatched = len(mapping)
		}
	}
	return best
}

// canonicalHeaders returns the positional header set assumed for
// headerless files of the given kind.
func canonicalHeaders(kind models.DocumentKind) []string {
	return canonicalFieldOrder[kind]
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// firstLine returns the first line of data without pulling the whole
// document through the sniffer.
func firstLine(data []byte) string {
	data = stripBOM(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return string(data[:i])
	}
	return string(data)
}
