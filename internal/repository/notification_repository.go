package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationLogEntry is one row of the notification_log table.
type NotificationLogEntry struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationRepository appends delivered notifications to an audit table.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Insert(ctx context.Context, e NotificationLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notification_log (kind, message, actor, created_at) VALUES ($1, $2, $3, $4)`,
		e.Kind, e.Message, e.Actor, e.CreatedAt)
	return err
}

// Recent returns the latest entries, newest first.
func (r *NotificationRepository) Recent(ctx context.Context, limit int) ([]NotificationLogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, message, actor, created_at FROM notification_log
		 ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[NotificationLogEntry])
}

// ListPaginated returns one page of entries, newest first, and the total count.
func (r *NotificationRepository) ListPaginated(ctx context.Context, limit, offset int) ([]NotificationLogEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notification_log`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT kind, message, actor, created_at FROM notification_log
		 ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[NotificationLogEntry])
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
