package migration

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/logger"
	"github.com/oblipix/viagemimpacta/internal/promo"
	"github.com/oblipix/viagemimpacta/internal/storage/memory"
)

func TestUp(t *testing.T) {
	l := logger.New(log.Default())
	catalog := hotel.NewCatalog()
	ledger := inventory.NewLedger(catalog, memory.New(memory.Config{L: l}))
	promos := promo.New()
	ctx := context.Background()

	if err := Up(ctx, l, catalog, ledger, promos); err != nil {
		t.Fatalf("up: %v", err)
	}

	roomTypes, err := catalog.ListRoomTypes("tropicalia-recife")
	if err != nil {
		t.Fatalf("list room types: %v", err)
	}

	if len(roomTypes) != 2 {
		t.Errorf("expected 2 room types, got %d", len(roomTypes))
	}

	seeded := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	available, err := ledger.GetAvailability(ctx, "tropicalia-deluxe", seeded)
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}

	if available != 1 {
		t.Errorf("expected seeded availability 1, got %d", available)
	}

	if _, err := promos.Strategies(ctx, "VERAO26"); err != nil {
		t.Errorf("expected seeded promo code, got %v", err)
	}
}
