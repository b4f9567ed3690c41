package inventory

import "time"

// AvailabilityRecord is one ledger row: how many units of a room type are
// still free on one calendar date. Rows are materialized lazily; a missing
// row means "nothing reserved yet" and reads as the room type's total
// quantity.
type AvailabilityRecord struct {
	RoomTypeID string    `json:"room_type_id"`
	Date       time.Time `json:"date"`
	Available  int       `json:"available"`
}

// ReserveInput is a transient booking request. CheckIn is inclusive,
// CheckOut exclusive; the stay covers the nights in [CheckIn, CheckOut).
type ReserveInput struct {
	RoomTypeID      string    `json:"room_type_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Quantity        int       `json:"quantity"`
	PromoStrategies []PromoStrategy
}

// Confirmation is returned for a committed reservation.
type Confirmation struct {
	ID         string    `json:"id"`
	RoomTypeID string    `json:"room_type_id"`
	HotelID    string    `json:"hotel_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Quantity   int       `json:"quantity"`
	Nights     int       `json:"nights"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// PromoStrategy adjusts a confirmation's quote. Flat discounts only;
// occupancy and seasonal pricing are a future extension.
type PromoStrategy interface {
	Apply(c *Confirmation) error
}

// Day normalizes t to midnight UTC. The ledger is keyed at nightly
// granularity, so every date that enters it goes through here.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights enumerates the stay dates in [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) []time.Time {
	var dates []time.Time
	for d := Day(checkIn); d.Before(Day(checkOut)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates
}
