package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"apagon-map/internal/models"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the schema if it doesn't exist.
func (db *DB) Migrate(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS report_notifications (
		report_id    BIGINT PRIMARY KEY,
		message_id   INT NOT NULL DEFAULT 0,
		notified_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := db.Pool.Exec(ctx, sql)
	return err
}

// WasNotified reports whether a report announcement was already posted.
// Restarting the worker must not re-announce reports already delivered
// before an ack was lost.
func (db *DB) WasNotified(ctx context.Context, reportID int64) (bool, error) {
	var n models.ReportNotification
	err := db.Pool.QueryRow(ctx, `
		SELECT report_id, message_id, notified_at
		FROM report_notifications WHERE report_id = $1
	`, reportID).Scan(&n.ReportID, &n.MessageID, &n.NotifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkNotified journals that a report announcement was posted.
func (db *DB) MarkNotified(ctx context.Context, reportID int64, messageID int) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO report_notifications (report_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (report_id) DO UPDATE SET message_id = $2, notified_at = NOW()
	`, reportID, messageID)
	return err
}
