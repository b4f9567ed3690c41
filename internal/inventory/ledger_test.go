package inventory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/logger"
)

// mapStore is an in-test Store with optional failure injection.
type mapStore struct {
	mu                sync.Mutex
	rows              map[string]int
	failDecrementDate string
	getErr            error
}

func newMapStore() *mapStore {
	return &mapStore{rows: make(map[string]int)}
}

func storeKey(roomTypeID string, date time.Time) string {
	return roomTypeID + "_" + date.Format("2006-01-02")
}

func (m *mapStore) GetAvailability(_ context.Context, roomTypeID string, date time.Time) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return 0, false, m.getErr
	}

	v, ok := m.rows[storeKey(roomTypeID, date)]

	return v, ok, nil
}

func (m *mapStore) Decrement(_ context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDecrementDate == date.Format("2006-01-02") {
		return fmt.Errorf("injected: %w", ErrInsufficientCapacity)
	}

	k := storeKey(roomTypeID, date)

	current, ok := m.rows[k]
	if !ok {
		current = total
	}

	if current-quantity < 0 {
		return fmt.Errorf("%v has %v, requested %v: %w", k, current, quantity, ErrInsufficientCapacity)
	}

	m.rows[k] = current - quantity

	return nil
}

func (m *mapStore) Increment(_ context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := storeKey(roomTypeID, date)

	current, ok := m.rows[k]
	if !ok {
		current = total
	}

	next := current + quantity
	if next > total {
		next = total
	}

	m.rows[k] = next

	return nil
}

func (m *mapStore) SetAvailability(_ context.Context, roomTypeID string, date time.Time, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows[storeKey(roomTypeID, date)] = quantity

	return nil
}

func testDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func testCatalog(t *testing.T) *hotel.Catalog {
	t.Helper()

	catalog := hotel.NewCatalog()

	if err := catalog.AddHotel(&hotel.Hotel{
		ID:       "tropicalia",
		Name:     "Tropicalia Beach Resort",
		Location: "Recife",
		Stars:    5,
	}); err != nil {
		t.Fatalf("add hotel: %v", err)
	}

	roomTypes := []*hotel.RoomType{
		{ID: "standard", HotelID: "tropicalia", Name: "Standard", NightlyPrice: 100, TotalQuantity: 5},
		{ID: "deluxe", HotelID: "tropicalia", Name: "Deluxe", NightlyPrice: 250, TotalQuantity: 2},
	}

	for _, rt := range roomTypes {
		if err := catalog.AddRoomType(rt); err != nil {
			t.Fatalf("add room type %v: %v", rt.ID, err)
		}
	}

	return catalog
}

func testLogger() *logger.Logger {
	return logger.New(log.Default())
}

func TestLedger_LazyDefault(t *testing.T) {
	ledger := NewLedger(testCatalog(t), newMapStore())

	available, err := ledger.GetAvailability(context.Background(), "standard", testDate(2025, 6, 1))
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}

	if available != 5 {
		t.Errorf("expected lazy default 5, got %d", available)
	}
}

func TestLedger_DecrementMaterializesRow(t *testing.T) {
	store := newMapStore()
	ledger := NewLedger(testCatalog(t), store)
	ctx := context.Background()
	d := testDate(2025, 6, 1)

	if err := ledger.Decrement(ctx, "standard", d, 2); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	available, err := ledger.GetAvailability(ctx, "standard", d)
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}

	if available != 3 {
		t.Errorf("expected 3 after decrementing lazy default, got %d", available)
	}
}

func TestLedger_DecrementBelowZeroFails(t *testing.T) {
	ledger := NewLedger(testCatalog(t), newMapStore())
	ctx := context.Background()
	d := testDate(2025, 6, 1)

	if err := ledger.Decrement(ctx, "deluxe", d, 3); !errors.Is(err, ErrInsufficientCapacity) {
		t.Fatalf("expected ErrInsufficientCapacity, got %v", err)
	}

	available, err := ledger.GetAvailability(ctx, "deluxe", d)
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}

	if available != 2 {
		t.Errorf("failed decrement must not change availability, got %d", available)
	}
}

func TestLedger_IncrementCappedAtTotal(t *testing.T) {
	ledger := NewLedger(testCatalog(t), newMapStore())
	ctx := context.Background()
	d := testDate(2025, 6, 1)

	if err := ledger.Decrement(ctx, "deluxe", d, 1); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	// Replayed release: two increments for one decrement.
	for i := 0; i < 2; i++ {
		if err := ledger.Increment(ctx, "deluxe", d, 1); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	available, err := ledger.GetAvailability(ctx, "deluxe", d)
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}

	if available != 2 {
		t.Errorf("expected availability capped at total 2, got %d", available)
	}
}

func TestLedger_UnknownRoomType(t *testing.T) {
	ledger := NewLedger(testCatalog(t), newMapStore())

	if _, err := ledger.GetAvailability(context.Background(), "penthouse", testDate(2025, 6, 1)); !hotel.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLedger_StorageFailurePropagates(t *testing.T) {
	store := newMapStore()
	store.getErr = fmt.Errorf("connection refused: %w", ErrStorage)

	ledger := NewLedger(testCatalog(t), store)

	if _, err := ledger.GetAvailability(context.Background(), "standard", testDate(2025, 6, 1)); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestLedger_SetAvailabilityClamped(t *testing.T) {
	ledger := NewLedger(testCatalog(t), newMapStore())
	ctx := context.Background()
	d := testDate(2025, 6, 1)

	if err := ledger.SetAvailability(ctx, "deluxe", d, 10); err != nil {
		t.Fatalf("set availability: %v", err)
	}

	available, err := ledger.GetAvailability(ctx, "deluxe", d)
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}

	if available != 2 {
		t.Errorf("expected seed clamped to total 2, got %d", available)
	}
}
