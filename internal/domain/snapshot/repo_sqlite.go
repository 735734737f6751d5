package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/carebridge/apidocs/internal/platform/middleware"
)

// SQLiteStore keeps snapshots and admin audit entries in a single SQLite
// file. Timestamps are stored as Unix nanoseconds so they order correctly.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; the pure-Go driver serializes anyway.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS api_snapshots (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			checksum TEXT NOT NULL,
			endpoint_count INTEGER NOT NULL,
			tag_count INTEGER NOT NULL,
			document BLOB NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_api_snapshots_created_at ON api_snapshots(created_at);`,
		`CREATE TABLE IF NOT EXISTS api_snapshot_audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			request_id TEXT NOT NULL DEFAULT '',
			remote_ip TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init sqlite schema: %w", err)
		}
	}
	return nil
}

// DB exposes the handle for health checks.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Snapshots returns the snapshot Repository view of the store.
func (s *SQLiteStore) Snapshots() Repository { return &snapshotRepoSQLite{db: s.db} }

// Audit returns an audit recorder writing to the store.
func (s *SQLiteStore) Audit() middleware.AuditRecorder { return &auditRecorderSQLite{db: s.db} }

type snapshotRepoSQLite struct{ db *sql.DB }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner, withDocument bool) (*Snapshot, error) {
	var (
		s       Snapshot
		id      string
		created int64
		doc     []byte
	)
	dest := []any{&id, &s.Version, &s.Checksum, &s.EndpointCount, &s.TagCount, &s.Note, &created}
	if withDocument {
		dest = append(dest, &doc)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot id %q: %w", id, err)
	}
	s.ID = parsed
	s.CreatedAt = time.Unix(0, created).UTC()
	if withDocument {
		s.Document = doc
	}
	return &s, nil
}

func (r *snapshotRepoSQLite) Create(ctx context.Context, s *Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_snapshots (id, version, checksum, endpoint_count, tag_count, note, created_at, document)
		VALUES (?,?,?,?,?,?,?,?)`,
		s.ID.String(), s.Version, s.Checksum, s.EndpointCount, s.TagCount, s.Note, s.CreatedAt.UnixNano(), []byte(s.Document))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return scanSQLite(r.db.QueryRowContext(ctx, `SELECT `+snapshotCols+` FROM api_snapshots WHERE id = ?`, id.String()), true)
}

func (r *snapshotRepoSQLite) Latest(ctx context.Context) (*Snapshot, error) {
	return scanSQLite(r.db.QueryRowContext(ctx,
		`SELECT `+snapshotCols+` FROM api_snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`), true)
}

func (r *snapshotRepoSQLite) List(ctx context.Context, limit, offset int) ([]*Snapshot, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_snapshots`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+metaCols+` FROM api_snapshots ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	items := make([]*Snapshot, 0, limit)
	for rows.Next() {
		s, err := scanSQLite(rows, false)
		if err != nil {
			return nil, 0, fmt.Errorf("scan snapshot: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *snapshotRepoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM api_snapshots WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type auditRecorderSQLite struct{ db *sql.DB }

func (r *auditRecorderSQLite) RecordAccess(e middleware.AuditEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO api_snapshot_audit (user_id, method, path, status_code, request_id, remote_ip, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		e.UserID, e.Method, e.Path, e.StatusCode, e.RequestID, e.IPAddress, e.Timestamp.UnixNano())
	return err
}
