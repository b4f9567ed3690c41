package search

import (
	"testing"

	"github.com/oblipix/viagemimpacta/internal/hotel"
)

func ptr(v float64) *float64 { return &v }

func testFixtures(t *testing.T) (*Engine, []*hotel.Hotel) {
	t.Helper()

	catalog := hotel.NewCatalog()

	hotels := []*hotel.Hotel{
		{ID: "h1", Name: "Tropicalia Beach Resort", Location: "Recife", Amenities: []string{"wifi", "pool"}},
		{ID: "h2", Name: "Pousada Serra Verde", Location: "Gramado", Amenities: []string{"wifi", "parking"}},
		{ID: "h3", Name: "Recife Budget Inn", Location: "Recife", Amenities: []string{"wifi"}},
	}

	roomTypes := []*hotel.RoomType{
		{ID: "h1-std", HotelID: "h1", Name: "Standard", NightlyPrice: 420, TotalQuantity: 5},
		{ID: "h1-dlx", HotelID: "h1", Name: "Deluxe", NightlyPrice: 780, TotalQuantity: 2},
		{ID: "h2-std", HotelID: "h2", Name: "Standard", NightlyPrice: 310, TotalQuantity: 8},
		{ID: "h3-std", HotelID: "h3", Name: "Economy", NightlyPrice: 120, TotalQuantity: 10},
	}

	for _, h := range hotels {
		if err := catalog.AddHotel(h); err != nil {
			t.Fatalf("add hotel: %v", err)
		}
	}

	for _, rt := range roomTypes {
		if err := catalog.AddRoomType(rt); err != nil {
			t.Fatalf("add room type: %v", err)
		}
	}

	return NewEngine(catalog), hotels
}

func ids(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Hotel.ID)
	}

	return out
}

func assertIDs(t *testing.T, got []Result, want ...string) {
	t.Helper()

	gotIDs := ids(got)

	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}

	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
}

func TestFilter_DestinationCaseInsensitive(t *testing.T) {
	engine, hotels := testFixtures(t)

	results, err := engine.Filter(hotels, Criteria{Destination: "recife"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h1", "h3")
}

func TestFilter_DestinationMatchesName(t *testing.T) {
	engine, hotels := testFixtures(t)

	results, err := engine.Filter(hotels, Criteria{Destination: "pousada"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h2")
}

func TestFilter_PriceBandInclusive(t *testing.T) {
	engine, hotels := testFixtures(t)

	// Bounds are inclusive: h2's cheapest room is exactly 310.
	results, err := engine.Filter(hotels, Criteria{MinPrice: ptr(310), MaxPrice: ptr(420)})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h1", "h2")
}

func TestFilter_RequiresAllAmenities(t *testing.T) {
	engine, hotels := testFixtures(t)

	results, err := engine.Filter(hotels, Criteria{Amenities: []string{"wifi", "pool"}})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h1")
}

func TestFilter_RoomTypeExactMatch(t *testing.T) {
	engine, hotels := testFixtures(t)

	results, err := engine.Filter(hotels, Criteria{RoomType: "Deluxe"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h1")
}

func TestFilter_NoCriteriaPreservesInputOrder(t *testing.T) {
	engine, hotels := testFixtures(t)

	results, err := engine.Filter(hotels, Criteria{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h1", "h2", "h3")
}

func TestFilter_PriceSortStable(t *testing.T) {
	engine, hotels := testFixtures(t)

	results, err := engine.Filter(hotels, Criteria{Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, results, "h3", "h2", "h1")
}

func TestFilter_TiesKeepInputOrder(t *testing.T) {
	catalog := hotel.NewCatalog()

	hotels := []*hotel.Hotel{
		{ID: "b-first", Name: "B"},
		{ID: "a-second", Name: "A"},
	}

	for _, h := range hotels {
		if err := catalog.AddHotel(h); err != nil {
			t.Fatalf("add hotel: %v", err)
		}

		if err := catalog.AddRoomType(&hotel.RoomType{
			ID: h.ID + "-std", HotelID: h.ID, Name: "Standard", NightlyPrice: 200, TotalQuantity: 1,
		}); err != nil {
			t.Fatalf("add room type: %v", err)
		}
	}

	results, err := NewEngine(catalog).Filter(hotels, Criteria{Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	// Equal prices: input order decides.
	assertIDs(t, results, "b-first", "a-second")
}

func TestFilter_IsDeterministic(t *testing.T) {
	engine, hotels := testFixtures(t)
	criteria := Criteria{Destination: "recife", Sort: SortPriceAsc}

	first, err := engine.Filter(hotels, criteria)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	second, err := engine.Filter(hotels, criteria)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	assertIDs(t, second, ids(first)...)
}
