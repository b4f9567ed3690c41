package hotel

// Hotel groups the room types a property sells. A RoomType never outlives
// its Hotel; removing a hotel from the catalog removes its room types too.
type Hotel struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Stars     int      `json:"stars"`
	Amenities []string `json:"amenities"`
}

// RoomType is a sellable category of room (Standard, Deluxe, ...), not a
// physical room. TotalQuantity is the physical inventory ceiling and is
// fixed outside the booking flow.
type RoomType struct {
	ID            string  `json:"id"`
	HotelID       string  `json:"hotel_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	MaxOccupancy  int     `json:"max_occupancy"`
	NightlyPrice  float64 `json:"nightly_price"`
	TotalQuantity int     `json:"total_quantity"`
}
