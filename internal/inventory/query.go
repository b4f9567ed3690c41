package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
)

type roomTypeLister interface {
	roomTypeGetter
	ListRoomTypes(hotelID string) ([]*hotel.RoomType, error)
}

// QueryService is the read-only projection over catalog and ledger. It
// takes no reservation lock; a value it returns may change right after the
// read, which is acceptable for display.
type QueryService struct {
	catalog roomTypeLister
	ledger  *Ledger
}

func NewQueryService(catalog roomTypeLister, ledger *Ledger) *QueryService {
	return &QueryService{
		catalog: catalog,
		ledger:  ledger,
	}
}

// RoomAvailability pairs a room type with its free units on one date.
type RoomAvailability struct {
	RoomType  *hotel.RoomType `json:"room_type"`
	Available int             `json:"available"`
}

// OccupancyEntry is one cell of the occupancy dashboard.
type OccupancyEntry struct {
	Date         time.Time `json:"date"`
	RoomTypeID   string    `json:"room_type_id"`
	RoomTypeName string    `json:"room_type_name"`
	Available    int       `json:"available"`
	OccupancyPct int       `json:"occupancy_pct"`
}

// AvailabilityToday renders "available now" for a hotel's room cards.
func (q *QueryService) AvailabilityToday(ctx context.Context, hotelID string) ([]RoomAvailability, error) {
	roomTypes, err := q.catalog.ListRoomTypes(hotelID)
	if err != nil {
		return nil, err
	}

	today := Day(time.Now().UTC())

	out := make([]RoomAvailability, 0, len(roomTypes))

	for _, rt := range roomTypes {
		available, err := q.ledger.GetAvailability(ctx, rt.ID, today)
		if err != nil {
			return nil, fmt.Errorf("availability of room type '%v' today: %w", rt.ID, err)
		}

		out = append(out, RoomAvailability{
			RoomType:  rt,
			Available: available,
		})
	}

	return out, nil
}

// AvailabilityForRange renders the occupancy calendar for days starting at
// start, one entry per (date, room type).
func (q *QueryService) AvailabilityForRange(ctx context.Context, hotelID string, start time.Time, days int) ([]OccupancyEntry, error) {
	if days < 1 {
		inputErr := newInputError()
		inputErr.addError("days", "days must be at least 1")

		return nil, inputErr
	}

	roomTypes, err := q.catalog.ListRoomTypes(hotelID)
	if err != nil {
		return nil, err
	}

	out := make([]OccupancyEntry, 0, days*len(roomTypes))

	for d, date := 0, Day(start); d < days; d, date = d+1, date.AddDate(0, 0, 1) {
		for _, rt := range roomTypes {
			available, err := q.ledger.GetAvailability(ctx, rt.ID, date)
			if err != nil {
				return nil, fmt.Errorf("availability of room type '%v' on %v: %w", rt.ID, date, err)
			}

			out = append(out, OccupancyEntry{
				Date:         date,
				RoomTypeID:   rt.ID,
				RoomTypeName: rt.Name,
				Available:    available,
				OccupancyPct: occupancyPct(rt.TotalQuantity, available),
			})
		}
	}

	return out, nil
}

// occupancyPct reports the reserved share of the inventory. A room type
// with zero total quantity has nothing to occupy and reads as 0.
func occupancyPct(total, available int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(100 * float64(total-available) / float64(total)))
}
