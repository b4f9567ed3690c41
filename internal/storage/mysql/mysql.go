// Package mysql backs the ledger with MySQL. Rows are materialized with
// INSERT IGNORE and mutated with conditional UPDATEs; RowsAffected == 0 on
// the guarded decrement means the row lacked capacity.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/oblipix/viagemimpacta/internal/inventory"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS availability (
	room_type_id VARCHAR(64)  NOT NULL,
	date         DATE         NOT NULL,
	available    INT          NOT NULL,
	updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (room_type_id, date),
	CONSTRAINT available_non_negative CHECK (available >= 0)
)`

type Adapter struct {
	db *sql.DB
}

func Open(ctx context.Context, dsn string) (*Adapter, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &Adapter{db: db}, nil
}

func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

func (a *Adapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create availability table: %w", err)
	}

	return nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) GetAvailability(ctx context.Context, roomTypeID string, date time.Time) (int, bool, error) {
	var available int

	err := a.db.QueryRowContext(ctx, `
		SELECT available FROM availability
		WHERE room_type_id = ? AND date = ?`,
		roomTypeID, date.Format("2006-01-02"),
	).Scan(&available)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("query availability: %w: %v", inventory.ErrStorage, err)
	}

	return available, true, nil
}

func (a *Adapter) Decrement(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %v", inventory.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	day := date.Format("2006-01-02")

	_, err = tx.ExecContext(ctx, `
		INSERT IGNORE INTO availability (room_type_id, date, available)
		VALUES (?, ?, ?)`,
		roomTypeID, day, total,
	)
	if err != nil {
		return fmt.Errorf("materialize availability row: %w: %v", inventory.ErrStorage, err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE availability
		SET available = available - ?
		WHERE room_type_id = ? AND date = ? AND available >= ?`,
		quantity, roomTypeID, day, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement availability: %w: %v", inventory.ErrStorage, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement rows affected: %w: %v", inventory.ErrStorage, err)
	}

	if rows == 0 {
		return fmt.Errorf(
			"room type '%v' on %v, requested %v: %w",
			roomTypeID, day, quantity, inventory.ErrInsufficientCapacity,
		)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit decrement: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}

func (a *Adapter) Increment(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %v", inventory.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	day := date.Format("2006-01-02")

	_, err = tx.ExecContext(ctx, `
		INSERT IGNORE INTO availability (room_type_id, date, available)
		VALUES (?, ?, ?)`,
		roomTypeID, day, total,
	)
	if err != nil {
		return fmt.Errorf("materialize availability row: %w: %v", inventory.ErrStorage, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE availability
		SET available = LEAST(available + ?, ?)
		WHERE room_type_id = ? AND date = ?`,
		quantity, total, roomTypeID, day,
	)
	if err != nil {
		return fmt.Errorf("increment availability: %w: %v", inventory.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit increment: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}

func (a *Adapter) SetAvailability(ctx context.Context, roomTypeID string, date time.Time, quantity int) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO availability (room_type_id, date, available)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE available = VALUES(available)`,
		roomTypeID, date.Format("2006-01-02"), quantity,
	)
	if err != nil {
		return fmt.Errorf("set availability: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}
