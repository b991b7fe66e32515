package unlockhistory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "geostake/pkg/domain"
	"geostake/pkg/platform/tx"
)

// PostgresStore persists unlock markers in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE unlock_history (
//	    identity    text NOT NULL,
//	    token_id    bigint NOT NULL,
//	    unlocked_at timestamptz NOT NULL DEFAULT now(),
//	    PRIMARY KEY (identity, token_id)
//	);
//
// Rows are never deleted; burn leaves them in place.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Mark(ctx context.Context, identity id.Identity, tokenID id.TokenID) error {
	q := tx.QuerierFrom(ctx, s.db)
	query := `
		INSERT INTO unlock_history (identity, token_id)
		VALUES ($1, $2)
		ON CONFLICT (identity, token_id) DO NOTHING
	`
	if _, err := q.ExecContext(ctx, query, identity.String(), int64(tokenID)); err != nil {
		return fmt.Errorf("mark unlock history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Has(ctx context.Context, identity id.Identity, tokenID id.TokenID) (bool, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM unlock_history WHERE identity = $1 AND token_id = $2`,
		identity.String(), int64(tokenID)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check unlock history: %w", err)
	}
	return true, nil
}
