package hotel

import (
	"fmt"
	"sync"
)

// Catalog is the room type registry. Reads dominate; writes are
// configuration-time administrative operations outside the booking flow.
type Catalog struct {
	mu         sync.RWMutex
	hotels     map[string]*Hotel
	hotelOrder []string
	roomTypes  map[string]*RoomType
	byHotel    map[string][]string
}

func NewCatalog() *Catalog {
	//nolint:exhaustruct
	return &Catalog{
		hotels:    make(map[string]*Hotel),
		roomTypes: make(map[string]*RoomType),
		byHotel:   make(map[string][]string),
	}
}

func (c *Catalog) AddHotel(h *Hotel) error {
	if h.ID == "" {
		return fmt.Errorf("hotel id is empty: %w", ErrBadRoomType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.hotels[h.ID]; !ok {
		c.hotelOrder = append(c.hotelOrder, h.ID)
	}

	c.hotels[h.ID] = h

	return nil
}

func (c *Catalog) GetHotel(hotelID string) (*Hotel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.hotels[hotelID]
	if !ok {
		return nil, fmt.Errorf("hotel '%v': %w", hotelID, ErrHotelNotFound)
	}

	return h, nil
}

// ListHotels returns hotels in registration order, which is what the
// search tie-break relies on.
func (c *Catalog) ListHotels() []*Hotel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Hotel, 0, len(c.hotelOrder))
	for _, id := range c.hotelOrder {
		out = append(out, c.hotels[id])
	}

	return out
}

func (c *Catalog) AddRoomType(rt *RoomType) error {
	if err := rt.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.hotels[rt.HotelID]; !ok {
		return fmt.Errorf("hotel '%v': %w", rt.HotelID, ErrHotelNotFound)
	}

	if _, ok := c.roomTypes[rt.ID]; !ok {
		c.byHotel[rt.HotelID] = append(c.byHotel[rt.HotelID], rt.ID)
	}

	c.roomTypes[rt.ID] = rt

	return nil
}

func (c *Catalog) GetRoomType(roomTypeID string) (*RoomType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rt, ok := c.roomTypes[roomTypeID]
	if !ok {
		return nil, fmt.Errorf("room type '%v': %w", roomTypeID, ErrRoomTypeNotFound)
	}

	return rt, nil
}

// ListRoomTypes returns the hotel's room types in registration order.
func (c *Catalog) ListRoomTypes(hotelID string) ([]*RoomType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.hotels[hotelID]; !ok {
		return nil, fmt.Errorf("hotel '%v': %w", hotelID, ErrHotelNotFound)
	}

	ids := c.byHotel[hotelID]

	out := make([]*RoomType, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.roomTypes[id])
	}

	return out, nil
}

// UpdateTotalQuantity changes the inventory ceiling of a room type.
// Administrative only; the booking flow never calls it.
func (c *Catalog) UpdateTotalQuantity(roomTypeID string, total int) error {
	if total < 0 {
		return fmt.Errorf("total quantity %v must not be negative: %w", total, ErrBadRoomType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rt, ok := c.roomTypes[roomTypeID]
	if !ok {
		return fmt.Errorf("room type '%v': %w", roomTypeID, ErrRoomTypeNotFound)
	}

	rt.TotalQuantity = total

	return nil
}

func (rt *RoomType) validate() error {
	if rt.ID == "" {
		return fmt.Errorf("room type id is empty: %w", ErrBadRoomType)
	}

	if rt.HotelID == "" {
		return fmt.Errorf("room type '%v' has no hotel id: %w", rt.ID, ErrBadRoomType)
	}

	if rt.TotalQuantity < 0 {
		return fmt.Errorf("room type '%v' total quantity %v must not be negative: %w", rt.ID, rt.TotalQuantity, ErrBadRoomType)
	}

	if rt.NightlyPrice < 0 {
		return fmt.Errorf("room type '%v' nightly price %v must not be negative: %w", rt.ID, rt.NightlyPrice, ErrBadRoomType)
	}

	return nil
}
