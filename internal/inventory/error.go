package inventory

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrStorage              = errors.New("storage failure")
	ErrNextID               = errors.New("get next id from generator")
)

// CapacityError lists the dates of a request that could not satisfy the
// requested quantity. The whole range is rejected when it is non-empty.
type CapacityError struct {
	entries []string
	dates   []time.Time
}

func NewCapacityError() *CapacityError {
	//nolint:exhaustruct
	return &CapacityError{}
}

func IsCapacityError(err error) *CapacityError {
	if err == nil {
		return nil
	}

	var capacityError *CapacityError

	if errors.As(err, &capacityError) {
		return capacityError
	}

	return nil
}

func (e *CapacityError) AddUnavailableDate(roomTypeID string, date time.Time, available, requested int) {
	e.entries = append(e.entries, fmt.Sprintf(
		"room type '%v' has %v of %v requested units on %v",
		roomTypeID, available, requested, date.Format("2006-01-02"),
	))
	e.dates = append(e.dates, date)
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%+v", e.entries)
}

func (e *CapacityError) Fields() []string {
	return e.entries
}

func (e *CapacityError) Dates() []time.Time {
	return e.dates
}

func (e *CapacityError) UnavailableDatesCount() int {
	return len(e.entries)
}

// InputError accumulates per-field validation failures of a request.
type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
