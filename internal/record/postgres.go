package record

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists records in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the records table and its indexes if they do not
// exist. Constraints mirror Validate so the database is the last line of
// defense against bad rows.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS records (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL CHECK (name <> ''),
			amount      NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
			date        DATE NOT NULL,
			verified    TEXT NOT NULL DEFAULT 'No' CHECK (verified IN ('Yes', 'No')),
			sheet_name  TEXT NOT NULL CHECK (sheet_name <> ''),
			imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_records_date_sheet ON records (date, sheet_name);`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert persists one record and fills in its ID and import timestamp.
func (s *PostgresStore) Insert(ctx context.Context, r *Record) error {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO records (name, amount, date, verified, sheet_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, imported_at`

	err := s.pool.QueryRow(ctx, query,
		r.Name, r.Amount.String(), r.Date, r.Verified, r.SheetName,
	).Scan(&r.ID, &r.ImportedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// List returns one page of records sorted by date descending, filtered
// by exact sheet name when provided.
func (s *PostgresStore) List(ctx context.Context, p ListParams) (*ListResult, error) {
	p = clampParams(p)

	where := ""
	args := []any{}
	if p.SheetName != "" {
		where = " WHERE sheet_name = $1"
		args = append(args, p.SheetName)
	}

	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM records"+where, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	offset := (p.Page - 1) * p.Limit
	query := fmt.Sprintf(
		`SELECT id, name, amount, date, verified, sheet_name, imported_at
		 FROM records%s
		 ORDER BY date DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, p.Limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	result := &ListResult{
		Records:     make([]Record, 0, p.Limit),
		TotalPages:  totalPages(count, p.Limit),
		CurrentPage: p.Page,
	}

	for rows.Next() {
		var r Record
		var amount pgtype.Numeric
		if err := rows.Scan(&r.ID, &r.Name, &amount, &r.Date, &r.Verified, &r.SheetName, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if amount.Valid {
			r.Amount = decimal.NewFromBigInt(amount.Int, amount.Exp)
		}
		result.Records = append(result.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
