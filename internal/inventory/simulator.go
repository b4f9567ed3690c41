package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/logger"
)

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

// Simulator commits reservations against the ledger. A reservation either
// decrements every night in [CheckIn, CheckOut) or leaves the ledger
// untouched; partial holds are never observable.
type Simulator struct {
	l           *logger.Logger
	catalog     roomTypeGetter
	ledger      *Ledger
	idGenerator idGenerator
	locks       *roomLocks
}

func NewSimulator(l *logger.Logger, catalog roomTypeGetter, ledger *Ledger, idGenerator idGenerator) *Simulator {
	return &Simulator{
		l:           l,
		catalog:     catalog,
		ledger:      ledger,
		idGenerator: idGenerator,
		locks:       newRoomLocks(),
	}
}

func (in *ReserveInput) validate() error {
	inputErr := newInputError()

	if in.RoomTypeID == "" {
		inputErr.addError("roomTypeID", "provide roomTypeID")
	}

	if in.Quantity < 1 {
		inputErr.addError("quantity", "quantity must be at least 1")
	}

	if !Day(in.CheckIn).Before(Day(in.CheckOut)) {
		inputErr.addError("checkIn", "checkIn must be before checkOut")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}

// Reserve runs the two-phase check-then-commit. The check and the commit
// run under the room type's lock: within this process no other reservation
// can interleave between them.
func (s *Simulator) Reserve(ctx context.Context, input *ReserveInput) (*Confirmation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rt, err := s.catalog.GetRoomType(input.RoomTypeID)
	if err != nil {
		return nil, err
	}

	dates := Nights(input.CheckIn, input.CheckOut)

	// The confirmation is drafted before any ledger mutation: a failed id
	// generator or promo strategy rejects the request without a hold.
	confirmation, err := s.buildConfirmation(ctx, input, rt, len(dates))
	if err != nil {
		return nil, fmt.Errorf("build confirmation: %w", err)
	}

	lock := s.locks.get(input.RoomTypeID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.checkCapacity(ctx, input, dates); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, input, dates); err != nil {
		return nil, err
	}

	return confirmation, nil
}

func (s *Simulator) checkCapacity(ctx context.Context, input *ReserveInput, dates []time.Time) error {
	capacityErr := NewCapacityError()

	for _, d := range dates {
		available, err := s.ledger.GetAvailability(ctx, input.RoomTypeID, d)
		if err != nil {
			return fmt.Errorf("check capacity: %w", err)
		}

		if available < input.Quantity {
			capacityErr.AddUnavailableDate(input.RoomTypeID, d, available, input.Quantity)
		}
	}

	if capacityErr.UnavailableDatesCount() > 0 {
		return capacityErr
	}

	return nil
}

// commit decrements every night in order. A decrement can still fail when
// an external writer raced past the check phase; the dates already taken
// are then released again so no partial hold survives.
func (s *Simulator) commit(ctx context.Context, input *ReserveInput, dates []time.Time) error {
	for idx, d := range dates {
		err := s.ledger.Decrement(ctx, input.RoomTypeID, d, input.Quantity)
		if err == nil {
			continue
		}

		s.compensate(ctx, input, dates[:idx])

		if errors.Is(err, ErrInsufficientCapacity) {
			capacityErr := NewCapacityError()

			available, getErr := s.ledger.GetAvailability(ctx, input.RoomTypeID, d)
			if getErr != nil {
				available = 0
			}

			capacityErr.AddUnavailableDate(input.RoomTypeID, d, available, input.Quantity)

			return capacityErr
		}

		return fmt.Errorf("commit reservation: %w", err)
	}

	return nil
}

func (s *Simulator) compensate(ctx context.Context, input *ReserveInput, taken []time.Time) {
	for _, d := range taken {
		if err := s.ledger.Increment(ctx, input.RoomTypeID, d, input.Quantity); err != nil {
			s.l.LogErrorf(
				"Could not release %v units of room type '%v' on %v after aborted reservation: %v",
				input.Quantity, input.RoomTypeID, d.Format("2006-01-02"), err.Error(),
			)
		}
	}
}

func (s *Simulator) buildConfirmation(ctx context.Context, input *ReserveInput, rt *hotel.RoomType, nights int) (*Confirmation, error) {
	id, err := s.idGenerator.GetID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	confirmation := &Confirmation{
		ID:         id,
		RoomTypeID: rt.ID,
		HotelID:    rt.HotelID,
		CheckIn:    Day(input.CheckIn),
		CheckOut:   Day(input.CheckOut),
		Quantity:   input.Quantity,
		Nights:     nights,
		TotalPrice: rt.NightlyPrice * float64(nights) * float64(input.Quantity),
		CreatedAt:  time.Now().UTC(),
	}

	for _, strategy := range input.PromoStrategies {
		if err := strategy.Apply(confirmation); err != nil {
			return nil, fmt.Errorf("apply promo strategy: %w", err)
		}
	}

	return confirmation, nil
}

// Cancel releases a previously committed range. Increments are capped at
// the room type's total quantity, so replaying a cancellation cannot
// corrupt the ledger.
func (s *Simulator) Cancel(ctx context.Context, input *ReserveInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	if _, err := s.catalog.GetRoomType(input.RoomTypeID); err != nil {
		return err
	}

	lock := s.locks.get(input.RoomTypeID)
	lock.Lock()
	defer lock.Unlock()

	for _, d := range Nights(input.CheckIn, input.CheckOut) {
		if err := s.ledger.Increment(ctx, input.RoomTypeID, d, input.Quantity); err != nil {
			return fmt.Errorf("release room type '%v' on %v: %w", input.RoomTypeID, d.Format("2006-01-02"), err)
		}
	}

	return nil
}
