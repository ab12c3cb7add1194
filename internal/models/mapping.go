package models

// Canonical field names used by the column mapper and the tolerant
// record parser.
const (
	FieldDate             = "date"
	FieldAmount           = "amount"
	FieldLocation         = "location"
	FieldTransactionCount = "transaction_count"
	FieldSupplier         = "supplier"
	FieldConcept          = "concept"
	FieldItem             = "item"
	FieldQuantity         = "quantity"
	FieldUnit             = "unit"
	FieldUnitCost         = "unit_cost"
)

// ColumnMapping maps a canonical field name to the original header string
// it was matched against. Absent keys mean the field is unmapped. A
// mapping is immutable once produced for a given header set and is
// recomputed per file.
type ColumnMapping map[string]string

// MappingConfidence is the coarse trust bucket of an automatic column
// mapping. It drives whether the pipeline proceeds automatically or asks
// for manual confirmation.
type MappingConfidence string

const (
	ConfidenceHigh   MappingConfidence = "high"
	ConfidenceMedium MappingConfidence = "medium"
	ConfidenceLow    MappingConfidence = "low"
)

// ConfidenceFor applies the tier rule: high needs at least three matched
// fields with every required field present, medium at least two with the
// required fields present, anything else is low.
func ConfidenceFor(matched int, requiredPresent bool) MappingConfidence {
	switch {
	case matched >= 3 && requiredPresent:
		return ConfidenceHigh
	case matched >= 2 && requiredPresent:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
