package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
)

const testTenant = "tenant-1"

// storeUnderTest exercises the shared Store contract against any backend.
func storeUnderTest(t *testing.T, s interface {
	CatalogReader
	MappingStore
	DuplicateIndex
}) {
	ctx := context.Background()

	t.Run("mappings are first write wins", func(t *testing.T) {
		first := models.LearnedMapping{
			TenantID: testTenant, SourceCode: "QM-001",
			SourceDescription: "QUESO MANCHEGO", CatalogEntryID: "cat-1", ConfidenceScore: 0.85,
		}
		written, err := s.PutIfAbsent(ctx, first)
		require.NoError(t, err)
		assert.True(t, written)

		second := first
		second.CatalogEntryID = "cat-2"
		written, err = s.PutIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.False(t, written, "existing mapping must not be overwritten")

		got, err := s.Get(ctx, testTenant, "QM-001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "cat-1", got.CatalogEntryID)
		assert.InDelta(t, 0.85, got.ConfidenceScore, 1e-9)
	})

	t.Run("missing mapping is nil not error", func(t *testing.T) {
		got, err := s.Get(ctx, testTenant, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate index", func(t *testing.T) {
		exists, err := s.Exists(ctx, testTenant, "ABC-1")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, s.Record(ctx, testTenant, "ABC-1"))

		exists, err = s.Exists(ctx, testTenant, "ABC-1")
		require.NoError(t, err)
		assert.True(t, exists)

		// Other tenants are unaffected.
		exists, err = s.Exists(ctx, "tenant-2", "ABC-1")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStoreContract(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), &logging.MockLogger{})
	require.NoError(t, err)
	storeUnderTest(t, s)
}

func TestSQLiteStoreContract(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ingesta.db"))
	require.NoError(t, err)
	defer s.Close()
	storeUnderTest(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir, &logging.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, s1.SetCatalog(testTenant, []models.CatalogEntry{
		{ID: "cat-2", Code: "B", Name: "Crema", Unit: "l"},
		{ID: "cat-1", Code: "A", Name: "Queso Manchego", Unit: "kg"},
	}))
	_, err = s1.PutIfAbsent(ctx, models.LearnedMapping{
		TenantID: testTenant, SourceCode: "X-1", CatalogEntryID: "cat-1", ConfidenceScore: 0.9,
	})
	require.NoError(t, err)
	require.NoError(t, s1.Record(ctx, testTenant, "UID-1"))

	s2, err := NewFileStore(dir, &logging.MockLogger{})
	require.NoError(t, err)

	entries, err := s2.ListEntries(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cat-1", entries[0].ID, "catalog must come back ordered by ID")

	mapping, err := s2.Get(ctx, testTenant, "X-1")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, "cat-1", mapping.CatalogEntryID)

	seen, err := s2.Exists(ctx, testTenant, "UID-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSQLiteCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "ingesta.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetCatalog(ctx, testTenant, []models.CatalogEntry{
		{ID: "cat-2", Code: "B", Name: "Crema", Unit: "l"},
		{ID: "cat-1", Code: "A", Name: "Queso Manchego", Unit: "kg"},
	}))

	entries, err := s.ListEntries(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cat-1", entries[0].ID)
	assert.Equal(t, "Queso Manchego", entries[0].Name)
}
