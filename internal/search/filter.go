// Package search filters and sorts hotel lists for presentation. Filter is
// a pure function: same inputs, same output, input order preserved on ties.
package search

import (
	"sort"
	"strings"

	"github.com/oblipix/viagemimpacta/internal/hotel"
)

const SortPriceAsc = "price"

// Criteria holds the recognized filter options. Nil price bounds mean
// unbounded; bounds are inclusive.
type Criteria struct {
	Destination string
	MinPrice    *float64
	MaxPrice    *float64
	Amenities   []string
	RoomType    string
	Sort        string
}

// Result pairs a hotel with the cheapest nightly price among its room
// types, which is what the price band and the price sort operate on.
type Result struct {
	Hotel    *hotel.Hotel `json:"hotel"`
	MinPrice float64      `json:"min_price"`
}

type roomTypeLister interface {
	ListRoomTypes(hotelID string) ([]*hotel.RoomType, error)
}

// Engine joins hotels with their room types so criteria on price and room
// type can be evaluated.
type Engine struct {
	catalog roomTypeLister
}

func NewEngine(catalog roomTypeLister) *Engine {
	return &Engine{catalog: catalog}
}

func (e *Engine) Filter(hotels []*hotel.Hotel, criteria Criteria) ([]Result, error) {
	var out []Result

	for _, h := range hotels {
		roomTypes, err := e.catalog.ListRoomTypes(h.ID)
		if err != nil {
			return nil, err
		}

		if !matches(h, roomTypes, criteria) {
			continue
		}

		out = append(out, Result{
			Hotel:    h,
			MinPrice: minNightlyPrice(roomTypes),
		})
	}

	if criteria.Sort == SortPriceAsc {
		// Stable: equal-priced hotels keep their input order.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MinPrice < out[j].MinPrice
		})
	}

	return out, nil
}

func matches(h *hotel.Hotel, roomTypes []*hotel.RoomType, criteria Criteria) bool {
	if criteria.Destination != "" {
		needle := strings.ToLower(criteria.Destination)
		if !strings.Contains(strings.ToLower(h.Name), needle) &&
			!strings.Contains(strings.ToLower(h.Location), needle) {
			return false
		}
	}

	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		price := minNightlyPrice(roomTypes)

		if criteria.MinPrice != nil && price < *criteria.MinPrice {
			return false
		}

		if criteria.MaxPrice != nil && price > *criteria.MaxPrice {
			return false
		}
	}

	for _, required := range criteria.Amenities {
		if !hasAmenity(h, required) {
			return false
		}
	}

	if criteria.RoomType != "" && !hasRoomType(roomTypes, criteria.RoomType) {
		return false
	}

	return true
}

func hasAmenity(h *hotel.Hotel, required string) bool {
	for _, a := range h.Amenities {
		if strings.EqualFold(a, required) {
			return true
		}
	}

	return false
}

func hasRoomType(roomTypes []*hotel.RoomType, name string) bool {
	for _, rt := range roomTypes {
		if rt.Name == name {
			return true
		}
	}

	return false
}

func minNightlyPrice(roomTypes []*hotel.RoomType) float64 {
	var minPrice float64

	for idx, rt := range roomTypes {
		if idx == 0 || rt.NightlyPrice < minPrice {
			minPrice = rt.NightlyPrice
		}
	}

	return minPrice
}
