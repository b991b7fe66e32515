package ownership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "geostake/pkg/domain"
	"geostake/pkg/platform/sentinel"
	"geostake/pkg/platform/tx"
)

// uniqueViolation is the PostgreSQL error code for duplicate key inserts.
const uniqueViolation = "23505"

// PostgresStore persists ownership entries in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE token_ownership (
//	    token_id bigint PRIMARY KEY,
//	    owner    text NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, tokenID id.TokenID, owner id.Identity) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx,
		`INSERT INTO token_ownership (token_id, owner) VALUES ($1, $2)`,
		int64(tokenID), owner.String())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create ownership entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Reassign(ctx context.Context, tokenID id.TokenID, owner id.Identity) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`UPDATE token_ownership SET owner = $2 WHERE token_id = $1`,
		int64(tokenID), owner.String())
	if err != nil {
		return fmt.Errorf("reassign ownership entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reassign ownership entry: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tokenID id.TokenID) (id.Identity, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var owner string
	err := q.QueryRowContext(ctx,
		`SELECT owner FROM token_ownership WHERE token_id = $1`, int64(tokenID)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find ownership entry: %w", err)
	}
	return id.Identity(owner), nil
}

func (s *PostgresStore) Delete(ctx context.Context, tokenID id.TokenID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM token_ownership WHERE token_id = $1`, int64(tokenID))
	if err != nil {
		return fmt.Errorf("delete ownership entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ownership entry: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
