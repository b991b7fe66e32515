package counter

import (
	"context"
	"database/sql"
	"fmt"

	id "geostake/pkg/domain"
	"geostake/pkg/platform/tx"
)

// PostgresStore persists the allocator scalar as a single guarded row.
//
// Schema:
//
//	CREATE TABLE token_counter (
//	    singleton     bool PRIMARY KEY DEFAULT true CHECK (singleton),
//	    last_token_id bigint NOT NULL DEFAULT 0
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Next(ctx context.Context) (id.TokenID, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `
		INSERT INTO token_counter (singleton, last_token_id)
		VALUES (true, 1)
		ON CONFLICT (singleton) DO UPDATE SET
			last_token_id = token_counter.last_token_id + 1
		RETURNING last_token_id
	`
	var last uint64
	if err := q.QueryRowContext(ctx, query).Scan(&last); err != nil {
		return 0, fmt.Errorf("allocate token id: %w", err)
	}
	return id.TokenID(last), nil
}

func (s *PostgresStore) Last(ctx context.Context) (id.TokenID, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var last uint64
	err := q.QueryRowContext(ctx, `SELECT last_token_id FROM token_counter WHERE singleton`).Scan(&last)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read token counter: %w", err)
	}
	return id.TokenID(last), nil
}
