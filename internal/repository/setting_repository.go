package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/classgrid-backend/internal/model"
)

// SettingRepository stores application settings.
type SettingRepository interface {
	GetAll(ctx context.Context) ([]model.AppSetting, error)
	Upsert(ctx context.Context, settings map[string]string) error
}

// PostgresSettingRepository keeps settings in the app_settings table.
type PostgresSettingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingRepository(pool *pgxpool.Pool) *PostgresSettingRepository {
	return &PostgresSettingRepository{pool: pool}
}

func (r *PostgresSettingRepository) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, updated_at FROM app_settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AppSetting, error) {
		var s model.AppSetting
		err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt)
		return s, err
	})
}

// Upsert writes every setting in one transaction.
func (r *PostgresSettingRepository) Upsert(ctx context.Context, settings map[string]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for key, value := range settings {
		batch.Queue(
			`INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			key, value)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return tx.Commit(ctx)
}

// MemorySettingRepository keeps settings in a map.
type MemorySettingRepository struct {
	mu       sync.RWMutex
	settings map[string]model.AppSetting
}

func NewMemorySettingRepository() *MemorySettingRepository {
	return &MemorySettingRepository{settings: make(map[string]model.AppSetting)}
}

func (r *MemorySettingRepository) GetAll(context.Context) ([]model.AppSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.AppSetting, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.AppSetting) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

func (r *MemorySettingRepository) Upsert(_ context.Context, settings map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for key, value := range settings {
		r.settings[key] = model.AppSetting{Key: key, Value: value, UpdatedAt: now}
	}
	return nil
}
