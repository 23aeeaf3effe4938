package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NaniDAO/coinchan-sub010/internal/model"
)

// Store provides Postgres persistence for activity records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertActivity inserts or updates activity records keyed by transaction.
func (s *Store) UpsertActivity(ctx context.Context, records []model.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO activity (
				chain_id, kind, tx_hash, owner, pool_id, asset_in, asset_out,
				amount_in, amount_out, status, recorded_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
			ON CONFLICT (chain_id, tx_hash)
			DO UPDATE SET
				status = EXCLUDED.status,
				recorded_at = EXCLUDED.recorded_at,
				updated_at = now()
		`,
			int64(record.ChainID),
			string(record.Kind),
			record.TxHash,
			record.Owner,
			record.PoolID,
			record.AssetIn,
			record.AssetOut,
			record.AmountIn,
			record.AmountOut,
			record.Status,
			record.RecordedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutActivityBatch satisfies the storage.Storage interface using a
// background-safe context.
func (s *Store) PutActivityBatch(records []model.ActivityRecord) error {
	return s.UpsertActivity(context.Background(), records)
}
