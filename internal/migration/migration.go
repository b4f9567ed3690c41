// Package migration seeds demo catalog and ledger data so the booking
// pages have something to render out of the box.
package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/logger"
	"github.com/oblipix/viagemimpacta/internal/promo"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

//nolint:funlen // seed data is linear
func Up(ctx context.Context, l *logger.Logger, catalog *hotel.Catalog, ledger *inventory.Ledger, promos *promo.Manager) error {
	hotels := []*hotel.Hotel{
		{
			ID:        "tropicalia-recife",
			Name:      "Tropicalia Beach Resort",
			Location:  "Recife, Pernambuco",
			Stars:     5,
			Amenities: []string{"wifi", "pool", "spa", "beachfront"},
		},
		{
			ID:        "serra-verde",
			Name:      "Pousada Serra Verde",
			Location:  "Gramado, Rio Grande do Sul",
			Stars:     4,
			Amenities: []string{"wifi", "breakfast", "parking"},
		},
	}

	roomTypes := []*hotel.RoomType{
		{
			ID:            "tropicalia-standard",
			HotelID:       "tropicalia-recife",
			Name:          "Standard",
			Description:   "Garden view, one queen bed",
			MaxOccupancy:  2,
			NightlyPrice:  420,
			TotalQuantity: 5,
		},
		{
			ID:            "tropicalia-deluxe",
			HotelID:       "tropicalia-recife",
			Name:          "Deluxe",
			Description:   "Ocean view, king bed and balcony",
			MaxOccupancy:  3,
			NightlyPrice:  780,
			TotalQuantity: 2,
		},
		{
			ID:            "serra-standard",
			HotelID:       "serra-verde",
			Name:          "Standard",
			Description:   "Mountain view, two single beds",
			MaxOccupancy:  2,
			NightlyPrice:  310,
			TotalQuantity: 8,
		},
	}

	for _, h := range hotels {
		if err := catalog.AddHotel(h); err != nil {
			return fmt.Errorf("seed hotel '%v': %w", h.ID, err)
		}
	}

	for _, rt := range roomTypes {
		if err := catalog.AddRoomType(rt); err != nil {
			return fmt.Errorf("seed room type '%v': %w", rt.ID, err)
		}
	}

	// A few explicit rows; everything else stays on the lazy default.
	seedRows := []struct {
		roomTypeID string
		date       time.Time
		available  int
	}{
		{roomTypeID: "tropicalia-deluxe", date: date(2026, 9, 10), available: 1},
		{roomTypeID: "tropicalia-standard", date: date(2026, 9, 10), available: 3},
	}

	for _, row := range seedRows {
		if err := ledger.SetAvailability(ctx, row.roomTypeID, row.date, row.available); err != nil {
			return fmt.Errorf("seed availability of '%v' on %v: %w", row.roomTypeID, row.date, err)
		}
	}

	promos.Register(&promo.Code{
		Code:               "VERAO26",
		DiscountPercentage: 15,
		ValidThrough:       date(2026, 12, 31),
	})

	l.LogInfo("Seeded %v hotels, %v room types, %v availability rows", len(hotels), len(roomTypes), len(seedRows))

	return nil
}
