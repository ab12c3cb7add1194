// Package store defines the narrow collaborator contracts the ingestion
// core depends on — catalog reads, learned-mapping persistence and the
// duplicate-document index — plus file-backed and SQLite-backed
// implementations. Both stores are tenant-scoped; within one batch the
// orchestrator processes documents sequentially, so read-your-writes
// consistency is all that is required.
package store

import (
	"context"

	"costeo/ingesta/internal/models"
)

// CatalogReader lists a tenant's ingredient/material catalog. The catalog
// is owned by an external system and read-only to the ingestion core.
type CatalogReader interface {
	ListEntries(ctx context.Context, tenantID string) ([]models.CatalogEntry, error)
}

// MappingStore persists learned source-code-to-catalog mappings.
// PutIfAbsent is first-write-wins: it reports false without writing when
// a mapping for the (tenant, source code) pair already exists. A human
// correction is the only sanctioned overwrite path and happens outside
// this interface.
type MappingStore interface {
	Get(ctx context.Context, tenantID, sourceCode string) (*models.LearnedMapping, error)
	PutIfAbsent(ctx context.Context, mapping models.LearnedMapping) (bool, error)
}

// DuplicateIndex tracks which fiscal identifiers have been ingested per
// tenant. Exists is consulted before any invoice is persisted or
// resolved.
type DuplicateIndex interface {
	Exists(ctx context.Context, tenantID, externalUID string) (bool, error)
	Record(ctx context.Context, tenantID, externalUID string) error
}

// Store bundles the three collaborator contracts; both backends
// implement all of them.
type Store interface {
	CatalogReader
	MappingStore
	DuplicateIndex
	Close() error
}
