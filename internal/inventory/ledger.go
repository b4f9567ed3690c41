package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
)

// Store holds the ledger rows. Each operation is atomic per
// (roomTypeID, date); total carries the room type's inventory ceiling so a
// store can materialize missing rows without knowing about the catalog.
type Store interface {
	// GetAvailability returns the stored value for the row, or ok=false
	// when no row has been materialized yet.
	GetAvailability(ctx context.Context, roomTypeID string, date time.Time) (available int, ok bool, err error)

	// Decrement atomically subtracts quantity, materializing the row at
	// total first if needed. Returns ErrInsufficientCapacity when the
	// result would be negative; the row is then left untouched.
	Decrement(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error

	// Increment atomically adds quantity, capped at total. The cap guards
	// against a replayed cancellation pushing availability above the
	// ceiling.
	Increment(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error

	// SetAvailability overwrites one row. Administrative seeding only.
	SetAvailability(ctx context.Context, roomTypeID string, date time.Time, quantity int) error
}

type roomTypeGetter interface {
	GetRoomType(roomTypeID string) (*hotel.RoomType, error)
}

// Ledger tracks free units per (room type, calendar date). Rows default to
// the room type's total quantity until a reservation or seed touches them.
// Nothing outside the ledger mutates availability.
type Ledger struct {
	catalog roomTypeGetter
	store   Store
}

func NewLedger(catalog roomTypeGetter, store Store) *Ledger {
	return &Ledger{
		catalog: catalog,
		store:   store,
	}
}

func (l *Ledger) GetAvailability(ctx context.Context, roomTypeID string, date time.Time) (int, error) {
	rt, err := l.catalog.GetRoomType(roomTypeID)
	if err != nil {
		return 0, err
	}

	available, ok, err := l.store.GetAvailability(ctx, roomTypeID, Day(date))
	if err != nil {
		return 0, fmt.Errorf("get availability for room type '%v' on %v: %w", roomTypeID, Day(date), err)
	}

	if !ok {
		return rt.TotalQuantity, nil
	}

	return available, nil
}

func (l *Ledger) Decrement(ctx context.Context, roomTypeID string, date time.Time, quantity int) error {
	if quantity < 1 {
		inputErr := newInputError()
		inputErr.addError("quantity", "quantity must be at least 1")

		return inputErr
	}

	rt, err := l.catalog.GetRoomType(roomTypeID)
	if err != nil {
		return err
	}

	if err := l.store.Decrement(ctx, roomTypeID, Day(date), quantity, rt.TotalQuantity); err != nil {
		return fmt.Errorf("decrement room type '%v' on %v by %v: %w", roomTypeID, Day(date), quantity, err)
	}

	return nil
}

func (l *Ledger) Increment(ctx context.Context, roomTypeID string, date time.Time, quantity int) error {
	if quantity < 1 {
		inputErr := newInputError()
		inputErr.addError("quantity", "quantity must be at least 1")

		return inputErr
	}

	rt, err := l.catalog.GetRoomType(roomTypeID)
	if err != nil {
		return err
	}

	if err := l.store.Increment(ctx, roomTypeID, Day(date), quantity, rt.TotalQuantity); err != nil {
		return fmt.Errorf("increment room type '%v' on %v by %v: %w", roomTypeID, Day(date), quantity, err)
	}

	return nil
}

// SetAvailability seeds one row. The value is clamped to the room type's
// [0, totalQuantity] range before it is written.
func (l *Ledger) SetAvailability(ctx context.Context, roomTypeID string, date time.Time, quantity int) error {
	rt, err := l.catalog.GetRoomType(roomTypeID)
	if err != nil {
		return err
	}

	if quantity < 0 {
		quantity = 0
	}

	if quantity > rt.TotalQuantity {
		quantity = rt.TotalQuantity
	}

	if err := l.store.SetAvailability(ctx, roomTypeID, Day(date), quantity); err != nil {
		return fmt.Errorf("set availability of room type '%v' on %v to %v: %w", roomTypeID, Day(date), quantity, err)
	}

	return nil
}
