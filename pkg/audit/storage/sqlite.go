package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"sentinel-hq/ceres/pkg/audit"
	"sentinel-hq/ceres/pkg/compliance/risk"
	"sentinel-hq/ceres/pkg/compliance/rules"
)

// SQLiteStore is a durable audit.Storage backed by SQLite. WAL mode keeps
// concurrent readers off the single writer's back; suitable for
// single-instance deployments where the trail must survive restarts.
type SQLiteStore struct {
	db *sql.DB

	saveStmt         *sql.Stmt
	getStmt          *sql.Stmt
	countStmt        *sql.Stmt
	deleteBeforeStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLiteStore opens (creating if needed) the audit database at path with
// default settings.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteConfig{Path: path})
}

// NewSQLiteStoreWithConfig opens the audit database with custom settings.
func NewSQLiteStoreWithConfig(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &audit.StorageError{Op: "open", Cause: err}
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, &audit.StorageError{Op: "init schema", Cause: err}
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, &audit.StorageError{Op: "prepare statements", Cause: err}
	}
	return store, nil
}

// initSchema creates the schema if it does not exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_records (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		text_sha256 TEXT NOT NULL,
		text_length INTEGER NOT NULL,
		frameworks TEXT NOT NULL,
		compliant INTEGER NOT NULL,
		violation_count INTEGER NOT NULL,
		max_severity TEXT NOT NULL,
		overall_score REAL NOT NULL,
		overall_level TEXT NOT NULL,
		redaction_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_records(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares the hot-path statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO audit_records
			(id, created_at, text_sha256, text_length, frameworks, compliant,
			 violation_count, max_severity, overall_score, overall_level, redaction_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			created_at = excluded.created_at,
			text_sha256 = excluded.text_sha256,
			text_length = excluded.text_length,
			frameworks = excluded.frameworks,
			compliant = excluded.compliant,
			violation_count = excluded.violation_count,
			max_severity = excluded.max_severity,
			overall_score = excluded.overall_score,
			overall_level = excluded.overall_level,
			redaction_count = excluded.redaction_count
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(selectColumns + ` WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM audit_records`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.deleteBeforeStmt, err = s.db.Prepare(`DELETE FROM audit_records WHERE created_at < ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

const selectColumns = `
	SELECT id, created_at, text_sha256, text_length, frameworks, compliant,
	       violation_count, max_severity, overall_score, overall_level, redaction_count
	FROM audit_records`

// Save persists a record.
func (s *SQLiteStore) Save(ctx context.Context, record *audit.Record) error {
	frameworks := make([]string, len(record.Frameworks))
	for i, fw := range record.Frameworks {
		frameworks[i] = fw.String()
	}

	_, err := s.saveStmt.ExecContext(ctx,
		record.ID,
		record.CreatedAt.UnixNano(),
		record.TextSHA256,
		record.TextLength,
		strings.Join(frameworks, ","),
		boolToInt(record.Compliant),
		record.ViolationCount,
		record.MaxSeverity.String(),
		record.OverallScore,
		record.OverallLevel.String(),
		record.RedactionCount,
	)
	if err != nil {
		return &audit.StorageError{Op: "save", Cause: err}
	}
	return nil
}

// Get returns the record with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*audit.Record, error) {
	record, err := scanRecord(s.getStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, audit.ErrRecordNotFound
	}
	if err != nil {
		return nil, &audit.StorageError{Op: "get", Cause: err}
	}
	return record, nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*audit.Record, error) {
	query := selectColumns + ` ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &audit.StorageError{Op: "list", Cause: err}
	}
	defer rows.Close()

	var out []*audit.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, &audit.StorageError{Op: "list scan", Cause: err}
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &audit.StorageError{Op: "list", Cause: err}
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, &audit.StorageError{Op: "count", Cause: err}
	}
	return count, nil
}

// DeleteBefore removes records created before the cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.deleteBeforeStmt.ExecContext(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, &audit.StorageError{Op: "delete before", Cause: err}
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, &audit.StorageError{Op: "delete before", Cause: err}
	}
	return deleted, nil
}

// DeleteOldest removes the oldest records until at most keep remain.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM audit_records WHERE id IN (
			SELECT id FROM audit_records
			ORDER BY created_at DESC
			LIMIT -1 OFFSET ?
		)`, keep)
	if err != nil {
		return 0, &audit.StorageError{Op: "delete oldest", Cause: err}
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, &audit.StorageError{Op: "delete oldest", Cause: err}
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.countStmt, s.deleteBeforeStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one record from a row.
func scanRecord(row rowScanner) (*audit.Record, error) {
	var (
		record        audit.Record
		createdAt     int64
		frameworksCSV string
		compliant     int
		maxSeverity   string
		overallLevel  string
	)
	err := row.Scan(
		&record.ID,
		&createdAt,
		&record.TextSHA256,
		&record.TextLength,
		&frameworksCSV,
		&compliant,
		&record.ViolationCount,
		&maxSeverity,
		&record.OverallScore,
		&overallLevel,
		&record.RedactionCount,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = time.Unix(0, createdAt).UTC()
	record.Compliant = compliant != 0
	record.MaxSeverity = rules.Severity(maxSeverity)
	record.OverallLevel = risk.Level(overallLevel)
	if frameworksCSV != "" {
		for _, fw := range strings.Split(frameworksCSV, ",") {
			record.Frameworks = append(record.Frameworks, rules.Framework(fw))
		}
	}
	return &record, nil
}

// boolToInt maps a bool onto SQLite's integer booleans.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
