package memory

import (
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/logger"
)

var _ inventory.Store = (*DB)(nil)

func newTestDB() *DB {
	return New(Config{L: logger.New(log.Default())})
}

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func TestDB_MissingRowIsNotMaterialized(t *testing.T) {
	db := newTestDB()

	_, ok, err := db.GetAvailability(context.Background(), "std", day(2025, 6, 1))
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if ok {
		t.Error("expected no row for an untouched date")
	}
}

func TestDB_DecrementFromDefault(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	d := day(2025, 6, 1)

	if err := db.Decrement(ctx, "std", d, 2, 5); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	available, ok, err := db.GetAvailability(ctx, "std", d)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}

	if available != 3 {
		t.Errorf("expected 3, got %d", available)
	}
}

func TestDB_DecrementInsufficient(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	d := day(2025, 6, 1)

	err := db.Decrement(ctx, "std", d, 6, 5)
	if !errors.Is(err, inventory.ErrInsufficientCapacity) {
		t.Fatalf("expected ErrInsufficientCapacity, got %v", err)
	}

	// A failed decrement must not materialize or change the row.
	if _, ok, _ := db.GetAvailability(ctx, "std", d); ok {
		t.Error("failed decrement materialized a row")
	}
}

func TestDB_IncrementCapped(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	d := day(2025, 6, 1)

	if err := db.SetAvailability(ctx, "std", d, 4); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := db.Increment(ctx, "std", d, 3, 5); err != nil {
		t.Fatalf("increment: %v", err)
	}

	available, _, err := db.GetAvailability(ctx, "std", d)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if available != 5 {
		t.Errorf("expected cap at 5, got %d", available)
	}
}

func TestDB_RowsAreIndependentPerDate(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	if err := db.Decrement(ctx, "std", day(2025, 6, 1), 5, 5); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	if _, ok, _ := db.GetAvailability(ctx, "std", day(2025, 6, 2)); ok {
		t.Error("neighboring date must stay on the lazy default")
	}
}

func TestDB_ConcurrentDecrementsNeverOversell(t *testing.T) {
	db := newTestDB()
	d := day(2025, 6, 1)
	total := 10

	var wg sync.WaitGroup

	successes := make(chan struct{}, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := db.Decrement(context.Background(), "std", d, 1, total); err == nil {
				successes <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}

	if count != total {
		t.Errorf("expected %d successful decrements, got %d", total, count)
	}

	available, _, err := db.GetAvailability(context.Background(), "std", d)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if available != 0 {
		t.Errorf("expected 0 left, got %d", available)
	}
}
