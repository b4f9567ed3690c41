// Package postgres backs the ledger with PostgreSQL through pgx. Missing
// rows are materialized with ON CONFLICT DO NOTHING; the decrement is a
// single guarded UPDATE checked via CommandTag.RowsAffected.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oblipix/viagemimpacta/internal/inventory"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS availability (
	room_type_id TEXT        NOT NULL,
	date         DATE        NOT NULL,
	available    INT         NOT NULL CHECK (available >= 0),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (room_type_id, date)
)`

type Adapter struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, databaseURL string) (*Adapter, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Adapter{pool: pool}, nil
}

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{pool: pool}
}

func (a *Adapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create availability table: %w", err)
	}

	return nil
}

func (a *Adapter) Close() {
	a.pool.Close()
}

func (a *Adapter) GetAvailability(ctx context.Context, roomTypeID string, date time.Time) (int, bool, error) {
	var available int

	err := a.pool.QueryRow(ctx, `
		SELECT available FROM availability
		WHERE room_type_id = $1 AND date = $2`,
		roomTypeID, date,
	).Scan(&available)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("query availability: %w: %v", inventory.ErrStorage, err)
	}

	return available, true, nil
}

func (a *Adapter) Decrement(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %v", inventory.ErrStorage, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO availability (room_type_id, date, available)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_type_id, date) DO NOTHING`,
		roomTypeID, date, total,
	)
	if err != nil {
		return fmt.Errorf("materialize availability row: %w: %v", inventory.ErrStorage, err)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE availability
		SET available = available - $1, updated_at = now()
		WHERE room_type_id = $2 AND date = $3 AND available >= $1`,
		quantity, roomTypeID, date,
	)
	if err != nil {
		return fmt.Errorf("decrement availability: %w: %v", inventory.ErrStorage, err)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf(
			"room type '%v' on %v, requested %v: %w",
			roomTypeID, date.Format("2006-01-02"), quantity, inventory.ErrInsufficientCapacity,
		)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit decrement: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}

func (a *Adapter) Increment(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %v", inventory.ErrStorage, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO availability (room_type_id, date, available)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_type_id, date) DO NOTHING`,
		roomTypeID, date, total,
	)
	if err != nil {
		return fmt.Errorf("materialize availability row: %w: %v", inventory.ErrStorage, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE availability
		SET available = LEAST(available + $1, $2), updated_at = now()
		WHERE room_type_id = $3 AND date = $4`,
		quantity, total, roomTypeID, date,
	)
	if err != nil {
		return fmt.Errorf("increment availability: %w: %v", inventory.ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit increment: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}

func (a *Adapter) SetAvailability(ctx context.Context, roomTypeID string, date time.Time, quantity int) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO availability (room_type_id, date, available)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_type_id, date) DO UPDATE
		SET available = EXCLUDED.available, updated_at = now()`,
		roomTypeID, date, quantity,
	)
	if err != nil {
		return fmt.Errorf("set availability: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}
