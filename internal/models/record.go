package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationUnknown is the sentinel used when a tabular row carries no
// resolvable location column.
const LocationUnknown = "unknown"

// ParsedRecord is the canonical form of one tabular source row. It is
// created by the tolerant record parser, never mutated, and consumed once
// by the orchestrator for persistence or error reporting.
//
// Sales rows populate Date, Amount, Location and TransactionCount.
// Expense rows populate Date, Amount, Supplier and Concept. Inventory
// rows populate Date, Item, Quantity, Unit and UnitCost.
type ParsedRecord struct {
	Kind             DocumentKind    `json:"kind"`
	Date             time.Time       `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	Location         string          `json:"location,omitempty"`
	TransactionCount *int            `json:"transaction_count,omitempty"`
	Supplier         string          `json:"supplier,omitempty"`
	Concept          string          `json:"concept,omitempty"`
	Item             string          `json:"item,omitempty"`
	Quantity         decimal.Decimal `json:"quantity,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	UnitCost         decimal.Decimal `json:"unit_cost,omitempty"`
	SourceRow        int             `json:"source_row"`
}

// RowError records why one source row was unusable. Row errors accumulate
// per batch and never abort parsing of subsequent rows. A row that fails
// required-field extraction yields exactly one RowError and no record.
type RowError struct {
	RowNumber int    `json:"row_number" yaml:"row_number"`
	Field     string `json:"field" yaml:"field"`
	Message   string `json:"message" yaml:"message"`
}
