package inventory

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/oblipix/viagemimpacta/internal/idgen/simple"
)

func TestAvailabilityForRange_Occupancy(t *testing.T) {
	catalog := testCatalog(t)
	ledger := NewLedger(catalog, newMapStore())
	sim := NewSimulator(testLogger(), catalog, ledger, simple.New())
	query := NewQueryService(catalog, ledger)
	ctx := context.Background()

	if _, err := sim.Reserve(ctx, &ReserveInput{
		RoomTypeID: "standard",
		CheckIn:    testDate(2025, 6, 1),
		CheckOut:   testDate(2025, 6, 3),
		Quantity:   5,
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	entries, err := query.AvailabilityForRange(ctx, "tropicalia", testDate(2025, 6, 1), 3)
	if err != nil {
		t.Fatalf("availability for range: %v", err)
	}

	// 3 days x 2 room types.
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}

	byKey := make(map[string]OccupancyEntry, len(entries))
	for _, e := range entries {
		byKey[e.RoomTypeID+"_"+e.Date.Format("2006-01-02")] = e
	}

	cases := []struct {
		key       string
		available int
		pct       int
	}{
		{key: "standard_2025-06-01", available: 0, pct: 100},
		{key: "standard_2025-06-02", available: 0, pct: 100},
		{key: "standard_2025-06-03", available: 5, pct: 0},
		{key: "deluxe_2025-06-01", available: 2, pct: 0},
	}

	for _, tc := range cases {
		e, ok := byKey[tc.key]
		if !ok {
			t.Fatalf("missing entry %v", tc.key)
		}

		if e.Available != tc.available {
			t.Errorf("%v: expected available %d, got %d", tc.key, tc.available, e.Available)
		}

		if e.OccupancyPct != tc.pct {
			t.Errorf("%v: expected occupancy %d%%, got %d%%", tc.key, tc.pct, e.OccupancyPct)
		}
	}
}

func TestAvailabilityForRange_InvalidDays(t *testing.T) {
	catalog := testCatalog(t)
	query := NewQueryService(catalog, NewLedger(catalog, newMapStore()))

	if _, err := query.AvailabilityForRange(context.Background(), "tropicalia", testDate(2025, 6, 1), 0); IsInputError(err) == nil {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestAvailabilityToday_IdempotentRead(t *testing.T) {
	catalog := testCatalog(t)
	ledger := NewLedger(catalog, newMapStore())
	query := NewQueryService(catalog, ledger)
	ctx := context.Background()

	first, err := query.AvailabilityToday(ctx, "tropicalia")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}

	second, err := query.AvailabilityToday(ctx, "tropicalia")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reads without intervening reservation differ: %+v vs %+v", first, second)
	}
}

func TestAvailabilityToday_ReflectsReservation(t *testing.T) {
	catalog := testCatalog(t)
	ledger := NewLedger(catalog, newMapStore())
	query := NewQueryService(catalog, ledger)
	ctx := context.Background()

	today := Day(time.Now().UTC())

	if err := ledger.Decrement(ctx, "standard", today, 2); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	out, err := query.AvailabilityToday(ctx, "tropicalia")
	if err != nil {
		t.Fatalf("availability today: %v", err)
	}

	for _, entry := range out {
		if entry.RoomType.ID == "standard" && entry.Available != 3 {
			t.Errorf("expected 3 standard units today, got %d", entry.Available)
		}
	}
}

func TestOccupancyPct_ZeroTotal(t *testing.T) {
	if got := occupancyPct(0, 0); got != 0 {
		t.Errorf("expected 0%% for zero inventory, got %d", got)
	}
}
