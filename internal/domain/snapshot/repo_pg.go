package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/apidocs/internal/platform/middleware"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type snapshotRepoPG struct{ conn queryable }

// NewRepoPG returns a Repository backed by the api_snapshots table.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &snapshotRepoPG{conn: pool}
}

const (
	metaCols     = `id, version, checksum, endpoint_count, tag_count, note, created_at`
	snapshotCols = metaCols + `, document`
)

func scanSnapshot(row pgx.Row, withDocument bool) (*Snapshot, error) {
	var s Snapshot
	dest := []any{&s.ID, &s.Version, &s.Checksum, &s.EndpointCount, &s.TagCount, &s.Note, &s.CreatedAt}
	if withDocument {
		dest = append(dest, &s.Document)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func (r *snapshotRepoPG) Create(ctx context.Context, s *Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.conn.Exec(ctx, `
		INSERT INTO api_snapshots (id, version, checksum, endpoint_count, tag_count, note, created_at, document)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.Version, s.Checksum, s.EndpointCount, s.TagCount, s.Note, s.CreatedAt, []byte(s.Document))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return scanSnapshot(r.conn.QueryRow(ctx, `SELECT `+snapshotCols+` FROM api_snapshots WHERE id = $1`, id), true)
}

func (r *snapshotRepoPG) Latest(ctx context.Context) (*Snapshot, error) {
	return scanSnapshot(r.conn.QueryRow(ctx,
		`SELECT `+snapshotCols+` FROM api_snapshots ORDER BY created_at DESC, seq DESC LIMIT 1`), true)
}

func (r *snapshotRepoPG) List(ctx context.Context, limit, offset int) ([]*Snapshot, int, error) {
	var total int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM api_snapshots`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	rows, err := r.conn.Query(ctx,
		`SELECT `+metaCols+` FROM api_snapshots ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	items := make([]*Snapshot, 0, limit)
	for rows.Next() {
		s, err := scanSnapshot(rows, false)
		if err != nil {
			return nil, 0, fmt.Errorf("scan snapshot: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *snapshotRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM api_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type auditRecorderPG struct{ conn queryable }

// NewAuditRecorderPG stores admin audit entries in api_snapshot_audit.
func NewAuditRecorderPG(pool *pgxpool.Pool) middleware.AuditRecorder {
	return &auditRecorderPG{conn: pool}
}

func (r *auditRecorderPG) RecordAccess(e middleware.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.conn.Exec(ctx, `
		INSERT INTO api_snapshot_audit (user_id, method, path, status_code, request_id, remote_ip, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.UserID, e.Method, e.Path, e.StatusCode, e.RequestID, e.IPAddress, e.Timestamp)
	return err
}
