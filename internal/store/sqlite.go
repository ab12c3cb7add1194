package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"costeo/ingesta/internal/models"
)

// SQLiteStore is a Store backed by an embedded SQLite database. It suits
// deployments where the YAML files would grow unwieldy or where several
// tenants share one ingestion host.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite store at path with WAL
// mode enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS catalog_entries (
	tenant_id TEXT NOT NULL,
	id TEXT NOT NULL,
	code TEXT,
	name TEXT NOT NULL,
	unit TEXT,
	PRIMARY KEY(tenant_id, id)
);

CREATE TABLE IF NOT EXISTS learned_mappings (
	tenant_id TEXT NOT NULL,
	source_code TEXT NOT NULL,
	source_description TEXT,
	catalog_entry_id TEXT NOT NULL,
	confidence_score REAL NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY(tenant_id, source_code)
);

CREATE TABLE IF NOT EXISTS seen_documents (
	tenant_id TEXT NOT NULL,
	external_uid TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	PRIMARY KEY(tenant_id, external_uid)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// ListEntries returns the tenant's catalog ordered by entry ID.
func (s *SQLiteStore) ListEntries(ctx context.Context, tenantID string) ([]models.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, unit FROM catalog_entries WHERE tenant_id = ? ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		var e models.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Unit); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetCatalog replaces a tenant's catalog inside one transaction.
func (s *SQLiteStore) SetCatalog(ctx context.Context, tenantID string, entries []models.CatalogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries WHERE tenant_id = ?`, tenantID); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_entries (tenant_id, id, code, name, unit) VALUES (?, ?, ?, ?, ?)`,
			tenantID, e.ID, e.Code, e.Name, e.Unit); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(ctx context.Context, tenantID, sourceCode string) (*models.LearnedMapping, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT source_description, catalog_entry_id, confidence_score, created_at
		 FROM learned_mappings WHERE tenant_id = ? AND source_code = ?`, tenantID, sourceCode)

	m := models.LearnedMapping{TenantID: tenantID, SourceCode: sourceCode}
	var createdAt string
	err := row.Scan(&m.SourceDescription, &m.CatalogEntryID, &m.ConfidenceScore, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &m, nil
}

// PutIfAbsent relies on INSERT OR IGNORE against the primary key, so the
// first write wins even across processes sharing the database.
func (s *SQLiteStore) PutIfAbsent(ctx context.Context, mapping models.LearnedMapping) (bool, error) {
	createdAt := mapping.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO learned_mappings
		 (tenant_id, source_code, source_description, catalog_entry_id, confidence_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		mapping.TenantID, mapping.SourceCode, mapping.SourceDescription,
		mapping.CatalogEntryID, mapping.ConfidenceScore, createdAt.Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, tenantID, externalUID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM seen_documents WHERE tenant_id = ? AND external_uid = ?`,
		tenantID, externalUID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) Record(ctx context.Context, tenantID, externalUID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_documents (tenant_id, external_uid, recorded_at) VALUES (?, ?, ?)`,
		tenantID, externalUID, time.Now().UTC().Format(time.RFC3339))
	return err
}
