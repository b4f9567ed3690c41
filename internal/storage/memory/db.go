// Package memory is the in-process ledger store. One mutex guards the row
// map; every operation is atomic per (roomTypeID, date) row.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/logger"
)

type Config struct {
	L *logger.Logger
}

type DB struct {
	mu           sync.Mutex
	l            *logger.Logger
	availability map[string]int
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:            conf.L,
		availability: make(map[string]int),
	}
}

func key(roomTypeID string, date time.Time) string {
	return fmt.Sprintf("%s_%s", roomTypeID, date.Format("2006-01-02"))
}

func (db *DB) GetAvailability(_ context.Context, roomTypeID string, date time.Time) (int, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	available, ok := db.availability[key(roomTypeID, date)]

	return available, ok, nil
}

func (db *DB) Decrement(_ context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := key(roomTypeID, date)

	current, ok := db.availability[k]
	if !ok {
		current = total
	}

	if current-quantity < 0 {
		return fmt.Errorf(
			"room type '%v' has %v units on %v, requested %v: %w",
			roomTypeID, current, date.Format("2006-01-02"), quantity, inventory.ErrInsufficientCapacity,
		)
	}

	db.availability[k] = current - quantity

	return nil
}

func (db *DB) Increment(_ context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := key(roomTypeID, date)

	current, ok := db.availability[k]
	if !ok {
		current = total
	}

	next := current + quantity
	if next > total {
		next = total
	}

	db.availability[k] = next

	return nil
}

func (db *DB) SetAvailability(_ context.Context, roomTypeID string, date time.Time, quantity int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.availability[key(roomTypeID, date)] = quantity

	return nil
}
