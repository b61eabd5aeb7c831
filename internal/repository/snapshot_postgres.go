package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnapshot persists a ListStore as one JSONB row of entity_snapshots keyed by kind.
type PostgresSnapshot[T any] struct {
	pool *pgxpool.Pool
	kind string
}

// NewPostgresSnapshot creates a snapshot persister for one entity kind ("teachers", "sections", ...).
func NewPostgresSnapshot[T any](pool *pgxpool.Pool, kind string) *PostgresSnapshot[T] {
	return &PostgresSnapshot[T]{pool: pool, kind: kind}
}

func (p *PostgresSnapshot[T]) Load(ctx context.Context) (Snapshot[T], error) {
	var (
		payload []byte
		lastID  int
	)
	err := p.pool.QueryRow(ctx,
		`SELECT payload, last_id FROM entity_snapshots WHERE kind = $1`, p.kind,
	).Scan(&payload, &lastID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot[T]{}, nil
		}
		return Snapshot[T]{}, fmt.Errorf("query %s snapshot: %w", p.kind, err)
	}

	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		return Snapshot[T]{}, fmt.Errorf("decode %s snapshot: %w", p.kind, err)
	}
	return Snapshot[T]{Records: records, LastID: lastID}, nil
}

func (p *PostgresSnapshot[T]) Save(ctx context.Context, snap Snapshot[T]) error {
	records := snap.Records
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", p.kind, err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO entity_snapshots (kind, payload, last_id, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (kind) DO UPDATE
		 SET payload = EXCLUDED.payload, last_id = EXCLUDED.last_id, updated_at = NOW()`,
		p.kind, payload, snap.LastID,
	)
	return err
}
