package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geostake/internal/token/models"
	id "geostake/pkg/domain"
	"geostake/pkg/platform/sentinel"
	"geostake/pkg/platform/tx"
)

// PostgresStore persists asset records in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE asset_records (
//	    token_id       bigint PRIMARY KEY,
//	    latitude       bigint NOT NULL,
//	    longitude      bigint NOT NULL,
//	    name           varchar(50) NOT NULL,
//	    description    text NOT NULL,
//	    locked         boolean NOT NULL,
//	    stake_sequence bigint NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.AssetRecord) error {
	if record == nil {
		return fmt.Errorf("asset record is required")
	}
	q := tx.QuerierFrom(ctx, s.db)
	query := `
		INSERT INTO asset_records (token_id, latitude, longitude, name, description, locked, stake_sequence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (token_id) DO UPDATE SET
			latitude       = EXCLUDED.latitude,
			longitude      = EXCLUDED.longitude,
			name           = EXCLUDED.name,
			description    = EXCLUDED.description,
			locked         = EXCLUDED.locked,
			stake_sequence = EXCLUDED.stake_sequence
	`
	_, err := q.ExecContext(ctx, query,
		int64(record.ID), int64(record.Latitude), int64(record.Longitude),
		record.Name, record.Description, record.Locked, int64(record.StakeSequence))
	if err != nil {
		return fmt.Errorf("save asset record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `
		SELECT token_id, latitude, longitude, name, description, locked, stake_sequence
		FROM asset_records
		WHERE token_id = $1
	`
	var (
		record        models.AssetRecord
		rawID         int64
		rawLat        int64
		rawLon        int64
		stakeSequence int64
	)
	err := q.QueryRowContext(ctx, query, int64(tokenID)).Scan(
		&rawID, &rawLat, &rawLon, &record.Name, &record.Description, &record.Locked, &stakeSequence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find asset record: %w", err)
	}
	record.ID = id.TokenID(rawID)
	record.Latitude = id.Coordinate(rawLat)
	record.Longitude = id.Coordinate(rawLon)
	record.StakeSequence = uint64(stakeSequence)
	return &record, nil
}

func (s *PostgresStore) Delete(ctx context.Context, tokenID id.TokenID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM asset_records WHERE token_id = $1`, int64(tokenID))
	if err != nil {
		return fmt.Errorf("delete asset record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
