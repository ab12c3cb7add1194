package models

import "time"

// CatalogEntry is a tenant-scoped ingredient or material record. The
// catalog is owned by an external collaborator and read-only here.
type CatalogEntry struct {
	ID   string `json:"id" yaml:"id"`
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
	Unit string `json:"unit" yaml:"unit"`
}

// LearnedMapping is a persisted, tenant-scoped association from a source
// item code to a catalog entry. It is created the first time a source
// code is confidently matched and consulted before re-running the
// matching strategies. Once created it is never overwritten
// automatically; a human correction is the only sanctioned mutation path.
type LearnedMapping struct {
	TenantID          string    `json:"tenant_id" yaml:"tenant_id"`
	SourceCode        string    `json:"source_code" yaml:"source_code"`
	SourceDescription string    `json:"source_description" yaml:"source_description"`
	CatalogEntryID    string    `json:"catalog_entry_id" yaml:"catalog_entry_id"`
	ConfidenceScore   float64   `json:"confidence_score" yaml:"confidence_score"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
}
