package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedDriver is returned for database drivers without a schema
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// SQLStorage implements the Storage interface over database/sql.
// SQLite is the default backend; PostgreSQL is used for shared deployments.
type SQLStorage struct {
	db      *sql.DB
	dialect Dialect
}

// openSQLite opens a SQLite database with appropriate settings
func openSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from single writer; also keeps :memory: on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLStorage, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newSQLStorage(db, DialectSQLite)
}

// Open creates a storage instance for the named backend ("sqlite" or "postgres")
func Open(backend, dsn string) (*SQLStorage, error) {
	switch strings.ToLower(backend) {
	case "", "sqlite", "sqlite3":
		return NewSQLiteStorage(dsn)
	case "postgres", "postgresql":
		return NewPostgresStorage(dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, backend)
	}
}

func newSQLStorage(db *sql.DB, dialect Dialect) (*SQLStorage, error) {
	if err := ApplyMigrations(context.Background(), db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return &SQLStorage{db: db, dialect: dialect}, nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into the dialect's bind syntax
func (s *SQLStorage) rebind(query string) string {
	return s.dialect.Rebind(query)
}

// Folder operations

func (s *SQLStorage) UpsertFolder(ctx context.Context, folder *FolderRecord) error {
	query := s.rebind(`
		INSERT INTO folder_cache (folder_id, parent_id, name, path, last_updated, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(folder_id) DO UPDATE SET
			parent_id = excluded.parent_id,
			name = excluded.name,
			path = excluded.path,
			last_updated = excluded.last_updated,
			is_active = excluded.is_active
	`)
	if folder.LastUpdated.IsZero() {
		folder.LastUpdated = time.Now()
	}
	folder.LastUpdated = folder.LastUpdated.UTC()

	var parentID sql.NullString
	if folder.ParentID != nil {
		parentID = sql.NullString{String: *folder.ParentID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		folder.ID, parentID, folder.Name, folder.Path, folder.LastUpdated, folder.Active)
	if err != nil {
		return fmt.Errorf("failed to upsert folder %s: %w", folder.ID, err)
	}
	return nil
}

func (s *SQLStorage) GetFolder(ctx context.Context, folderID string) (*FolderRecord, error) {
	query := s.rebind(`
		SELECT folder_id, parent_id, name, path, last_updated, is_active
		FROM folder_cache
		WHERE folder_id = ?
	`)
	folder, err := scanFolder(s.db.QueryRowContext(ctx, query, folderID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *SQLStorage) ListActiveFolderIDs(ctx context.Context) ([]string, error) {
	query := s.rebind(`
		SELECT folder_id
		FROM folder_cache
		WHERE is_active = ?
		ORDER BY last_updated, folder_id
	`)
	rows, err := s.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStorage) ListChildFolders(ctx context.Context, parentID string) ([]*FolderRecord, error) {
	query := s.rebind(`
		SELECT folder_id, parent_id, name, path, last_updated, is_active
		FROM folder_cache
		WHERE parent_id = ?
		ORDER BY name, folder_id
	`)
	rows, err := s.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	folders := make([]*FolderRecord, 0)
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

func (s *SQLStorage) DeactivateFolder(ctx context.Context, folderID string) (int64, error) {
	query := s.rebind(`UPDATE folder_cache SET is_active = ? WHERE folder_id = ?`)
	result, err := s.db.ExecContext(ctx, query, false, folderID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate folder %s: %w", folderID, err)
	}
	return result.RowsAffected()
}

func (s *SQLStorage) DeactivateAllFolders(ctx context.Context) (int64, error) {
	query := s.rebind(`UPDATE folder_cache SET is_active = ?`)
	result, err := s.db.ExecContext(ctx, query, false)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate folders: %w", err)
	}
	return result.RowsAffected()
}

// rowScanner is implemented by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFolder(row rowScanner) (*FolderRecord, error) {
	var folder FolderRecord
	var parentID sql.NullString
	err := row.Scan(&folder.ID, &parentID, &folder.Name, &folder.Path,
		&folder.LastUpdated, &folder.Active)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		folder.ParentID = &parentID.String
	}
	return &folder, nil
}

// Synonym operations

func (s *SQLStorage) GetSynonyms(ctx context.Context, word string) (*SynonymEntry, error) {
	query := s.rebind(`
		SELECT word, synonyms_json, created_at
		FROM synonym_cache
		WHERE word = ?
	`)
	var entry SynonymEntry
	var raw string
	err := s.db.QueryRowContext(ctx, query, word).Scan(&entry.Word, &raw, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &entry.Variants); err != nil {
		return nil, fmt.Errorf("corrupt synonym entry %q: %w", word, err)
	}
	return &entry, nil
}

// PutSynonyms stores an entry; an existing entry for the same word is kept.
func (s *SQLStorage) PutSynonyms(ctx context.Context, entry *SynonymEntry) error {
	data, err := json.Marshal(entry.Variants)
	if err != nil {
		return fmt.Errorf("failed to encode synonyms: %w", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	query := s.rebind(`
		INSERT INTO synonym_cache (word, synonyms_json, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(word) DO NOTHING
	`)
	if _, err := s.db.ExecContext(ctx, query, entry.Word, string(data), entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to store synonyms for %q: %w", entry.Word, err)
	}
	return nil
}

// Status operations

func (s *SQLStorage) GetStatus(ctx context.Context) (*CacheStatus, error) {
	status := &CacheStatus{Driver: s.dialect.Name}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)
		FROM folder_cache
	`).Scan(&status.TotalFolders, &status.ActiveFolders)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM synonym_cache").Scan(&status.SynonymEntries)
	if err != nil {
		return nil, err
	}

	var lastUpdated time.Time
	err = s.db.QueryRowContext(ctx,
		"SELECT last_updated FROM folder_cache ORDER BY last_updated DESC LIMIT 1").Scan(&lastUpdated)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	status.LastUpdated = lastUpdated

	return status, nil
}

// Dialect captures the per-backend differences in SQL syntax
type Dialect struct {
	Name string
	// Numbered reports whether placeholders are $1, $2, ... instead of ?
	Numbered bool
	Schema   string
	Teardown string
}

var (
	// DialectSQLite targets modernc.org/sqlite or mattn/go-sqlite3
	DialectSQLite = Dialect{Name: "sqlite", Schema: sqliteSchemaV1, Teardown: schemaV1Down}
	// DialectPostgres targets lib/pq
	DialectPostgres = Dialect{Name: "postgres", Numbered: true, Schema: postgresSchemaV1, Teardown: schemaV1Down}
)

// Rebind rewrites ? placeholders to $n when the dialect requires it
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
