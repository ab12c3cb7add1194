package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

// File names inside the store directory.
const (
	catalogFile  = "catalog.yaml"
	mappingsFile = "mappings.yaml"
	seenFile     = "seen.yaml"
)

// FileStore is a YAML-file-backed Store. Missing files are treated as
// empty data sets, not errors, so a fresh directory works out of the box;
// writes create the directory and files on demand.
type FileStore struct {
	dir    string
	logger logging.Logger

	catalog  map[string][]models.CatalogEntry
	mappings map[string]map[string]models.LearnedMapping
	seen     map[string]map[string]bool
}

// NewFileStore opens (or lazily creates) a YAML store rooted at dir.
func NewFileStore(dir string, logger logging.Logger) (*FileStore, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	s := &FileStore{
		dir:      dir,
		logger:   logger,
		catalog:  map[string][]models.CatalogEntry{},
		mappings: map[string]map[string]models.LearnedMapping{},
		seen:     map[string]map[string]bool{},
	}

	if err := s.loadYAML(catalogFile, &s.catalog); err != nil {
		return nil, err
	}
	if err := s.loadYAML(mappingsFile, &s.mappings); err != nil {
		return nil, err
	}
	var seen map[string][]string
	if err := s.loadYAML(seenFile, &seen); err != nil {
		return nil, err
	}
	for tenant, uids := range seen {
		s.seen[tenant] = map[string]bool{}
		for _, uid := range uids {
			s.seen[tenant][uid] = true
		}
	}

	return s, nil
}

func (s *FileStore) loadYAML(name string, out interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("store file not found, starting empty",
				logging.Field{Key: "file", Value: path})
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) saveYAML(name string, in interface{}) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("error creating store directory: %w", err)
	}
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

// ListEntries returns the tenant's catalog sorted by entry ID, so
// iteration order is stable across runs.
func (s *FileStore) ListEntries(_ context.Context, tenantID string) ([]models.CatalogEntry, error) {
	entries := append([]models.CatalogEntry{}, s.catalog[tenantID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// SetCatalog replaces a tenant's catalog. Used by seeding tooling and
// tests; the ingestion core itself never writes the catalog.
func (s *FileStore) SetCatalog(tenantID string, entries []models.CatalogEntry) error {
	s.catalog[tenantID] = entries
	return s.saveYAML(catalogFile, s.catalog)
}

func (s *FileStore) Get(_ context.Context, tenantID, sourceCode string) (*models.LearnedMapping, error) {
	tenant, ok := s.mappings[tenantID]
	if !ok {
		return nil, nil
	}
	m, ok := tenant[sourceCode]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *FileStore) PutIfAbsent(_ context.Context, mapping models.LearnedMapping) (bool, error) {
	tenant, ok := s.mappings[mapping.TenantID]
	if !ok {
		tenant = map[string]models.LearnedMapping{}
		s.mappings[mapping.TenantID] = tenant
	}
	if _, exists := tenant[mapping.SourceCode]; exists {
		return false, nil
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now().UTC()
	}
	tenant[mapping.SourceCode] = mapping
	return true, s.saveYAML(mappingsFile, s.mappings)
}

func (s *FileStore) Exists(_ context.Context, tenantID, externalUID string) (bool, error) {
	return s.seen[tenantID][externalUID], nil
}

func (s *FileStore) Record(_ context.Context, tenantID, externalUID string) error {
	if s.seen[tenantID] == nil {
		s.seen[tenantID] = map[string]bool{}
	}
	s.seen[tenantID][externalUID] = true

	out := map[string][]string{}
	for tenant, uids := range s.seen {
		for uid := range uids {
			out[tenant] = append(out[tenant], uid)
		}
		sort.Strings(out[tenant])
	}
	return s.saveYAML(seenFile, out)
}

// Close flushes nothing; every write already went to disk.
func (s *FileStore) Close() error {
	return nil
}
