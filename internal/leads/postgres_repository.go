package leads

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// pgxDB is the subset of *pgxpool.Pool the store needs; pgxmock satisfies it.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// leadLogLockID is the advisory lock key that serializes appends.
const leadLogLockID int64 = 0x6e6f6168 // "noah"

// PostgresStore stores the lead log in an append-only table. Appends take a
// transaction-scoped advisory lock, so seq order and captured_at order agree
// across any number of writers.
type PostgresStore struct {
	db     pgxDB
	tracer trace.Tracer
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(db pgxDB) *PostgresStore {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("realestate.internal.leads.postgres"),
	}
}

// Append inserts a new row, clamping captured_at to the latest logged one.
func (s *PostgresStore) Append(ctx context.Context, lead *Lead) error {
	ctx, span := s.tracer.Start(ctx, "leads.postgres.append")
	defer span.End()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("leads: begin failed: %w", err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, leadLogLockID); err != nil {
		_ = tx.Rollback(ctx)
		span.RecordError(err)
		return fmt.Errorf("leads: lock failed: %w", err)
	}

	query := `
		INSERT INTO leads (id, name, email, phone, service, message, source, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, GREATEST($8, COALESCE((SELECT MAX(captured_at) FROM leads), $8)))
	`
	if _, err := tx.Exec(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		string(lead.Service),
		lead.Message,
		lead.Source,
		lead.Timestamp,
	); err != nil {
		_ = tx.Rollback(ctx)
		span.RecordError(err)
		return fmt.Errorf("leads: insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("leads: commit failed: %w", err)
	}
	return nil
}

// List returns every lead in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]*Lead, error) {
	ctx, span := s.tracer.Start(ctx, "leads.postgres.list")
	defer span.End()

	query := `
		SELECT id, name, email, phone, service, message, source, captured_at
		FROM leads
		ORDER BY seq
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		var (
			lead    Lead
			service string
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&service,
			&lead.Message,
			&lead.Source,
			&lead.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		lead.Service = Service(service)
		out = append(out, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate failed: %w", err)
	}
	return out, nil
}

// Len counts logged leads.
func (s *PostgresStore) Len(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("leads: count failed: %w", err)
	}
	return int(n), nil
}
