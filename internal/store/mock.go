package store

import (
	"context"
	"sort"
	"time"

	"costeo/ingesta/internal/models"
)

// MemoryStore is an in-memory Store for tests. It mirrors the semantics
// of the real backends: catalog iteration ordered by entry ID,
// first-write-wins mappings, tenant-scoped duplicate index.
type MemoryStore struct {
	Catalog  map[string][]models.CatalogEntry
	Mappings map[string]map[string]models.LearnedMapping
	Seen     map[string]map[string]bool

	// ListErr, when set, is returned by ListEntries to exercise
	// collaborator-failure paths.
	ListErr error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Catalog:  map[string][]models.CatalogEntry{},
		Mappings: map[string]map[string]models.LearnedMapping{},
		Seen:     map[string]map[string]bool{},
	}
}

func (s *MemoryStore) ListEntries(_ context.Context, tenantID string) ([]models.CatalogEntry, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	entries := append([]models.CatalogEntry{}, s.Catalog[tenantID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *MemoryStore) Get(_ context.Context, tenantID, sourceCode string) (*models.LearnedMapping, error) {
	if m, ok := s.Mappings[tenantID][sourceCode]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *MemoryStore) PutIfAbsent(_ context.Context, mapping models.LearnedMapping) (bool, error) {
	if s.Mappings[mapping.TenantID] == nil {
		s.Mappings[mapping.TenantID] = map[string]models.LearnedMapping{}
	}
	if _, exists := s.Mappings[mapping.TenantID][mapping.SourceCode]; exists {
		return false, nil
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now().UTC()
	}
	s.Mappings[mapping.TenantID][mapping.SourceCode] = mapping
	return true, nil
}

func (s *MemoryStore) Exists(_ context.Context, tenantID, externalUID string) (bool, error) {
	return s.Seen[tenantID][externalUID], nil
}

func (s *MemoryStore) Record(_ context.Context, tenantID, externalUID string) error {
	if s.Seen[tenantID] == nil {
		s.Seen[tenantID] = map[string]bool{}
	}
	s.Seen[tenantID][externalUID] = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
