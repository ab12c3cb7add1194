// Package ingesterror defines the typed errors produced by the ingestion
// pipeline. Row-level problems are collected as values and never abort a
// batch; document-level problems abort only the document in flight.
package ingesterror

import "fmt"

// FormatError indicates that format sniffing cannot proceed for a file.
// It is fatal for that file.
type FormatError struct {
	Document string
	Msg      string
}

func (e *FormatError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("format error in %s: %s", e.Document, e.Msg)
	}
	return fmt.Sprintf("format error: %s", e.Msg)
}

// StructureError indicates that an invoice document is missing a mandatory
// node. It is fatal for that document only.
type StructureError struct {
	Document string
	Node     string
	Err      error
}

func (e *StructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invoice %s: missing or invalid %s: %v", e.Document, e.Node, e.Err)
	}
	return fmt.Sprintf("invoice %s: missing or invalid %s", e.Document, e.Node)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// DuplicateError indicates that a document's fiscal identifier has already
// been ingested for the tenant. The document is rejected, not merged.
type DuplicateError struct {
	TenantID    string
	ExternalUID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate document %s for tenant %s", e.ExternalUID, e.TenantID)
}

// MappingError indicates that column auto-mapping was not confident enough
// to proceed without manual confirmation.
type MappingError struct {
	Document   string
	Confidence string
	Matched    int
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("column mapping for %s is %s confidence (%d fields matched); manual mapping required",
		e.Document, e.Confidence, e.Matched)
}

// SinkError wraps a failure of the storage collaborator. It aborts only the
// document in flight.
type SinkError struct {
	Document string
	Err      error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Document, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
