package models

// IngestionStatus is the terminal outcome of one submitted document.
type IngestionStatus string

const (
	StatusSuccess           IngestionStatus = "success"
	StatusPartial           IngestionStatus = "partial"
	StatusRejectedDuplicate IngestionStatus = "rejected_duplicate"
	StatusRejectedStructure IngestionStatus = "rejected_structure"
	// StatusFailed marks a collaborator failure (store or sink) that
	// aborted the document in flight. It never aborts the batch.
	StatusFailed IngestionStatus = "failed"
)

// Rejected reports whether the document was absorbed by a failure state.
func (s IngestionStatus) Rejected() bool {
	return s == StatusRejectedDuplicate || s == StatusRejectedStructure
}

// IngestionResult is produced exactly once per submitted document,
// independent of the other documents in the batch. It carries everything
// a caller needs to show "N of M records succeeded, here is why the rest
// did not".
type IngestionResult struct {
	DocumentID       string          `json:"document_id" yaml:"document_id"`
	Kind             DocumentKind    `json:"kind" yaml:"kind"`
	Status           IngestionStatus `json:"status" yaml:"status"`
	RecordsProcessed int             `json:"records_processed" yaml:"records_processed"`
	UnmatchedItems   []string        `json:"unmatched_line_items,omitempty" yaml:"unmatched_line_items,omitempty"`
	RowErrors        []RowError      `json:"row_errors,omitempty" yaml:"row_errors,omitempty"`
	// Error carries the document-level failure reason for rejected
	// documents; empty otherwise.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Deduplicable is false when the document carried no fiscal
	// identifier and therefore bypassed the duplicate index.
	Deduplicable bool `json:"deduplicable" yaml:"deduplicable"`
}
