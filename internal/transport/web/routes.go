package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oblipix/viagemimpacta/internal/hotel"
	"github.com/oblipix/viagemimpacta/internal/inventory"
	"github.com/oblipix/viagemimpacta/internal/promo"
	"github.com/oblipix/viagemimpacta/internal/search"
)

const dateLayout = "2006-01-02"

type reservationRequest struct {
	RoomTypeID string `json:"room_type_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Quantity   int    `json:"quantity"`
	PromoCode  string `json:"promo_code"`
}

type availabilityUpdateRequest struct {
	RoomTypeID string `json:"room_type_id"`
	Date       string `json:"date"`
	Quantity   int    `json:"quantity"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

// writeError maps the error taxonomy onto HTTP statuses: input errors 400,
// unknown ids 404, capacity rejections 412, storage failures 503.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if inputErr := inventory.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return
	}

	if capacityErr := inventory.IsCapacityError(err); capacityErr != nil {
		unavailable := make([]string, 0, capacityErr.UnavailableDatesCount())
		for _, d := range capacityErr.Dates() {
			unavailable = append(unavailable, d.Format(dateLayout))
		}

		s.writeJSON(w, http.StatusPreconditionFailed, map[string]any{
			"errors":            capacityErr.Fields(),
			"unavailable_dates": unavailable,
		})

		return
	}

	if hotel.IsNotFound(err) {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

		return
	}

	if errors.Is(err, hotel.ErrBadRoomType) ||
		errors.Is(err, promo.ErrPromoCodeUnknown) ||
		errors.Is(err, promo.ErrPromoCodeExpired) {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

		return
	}

	if errors.Is(err, inventory.ErrStorage) {
		s.l.LogErrorf("Storage failure: %v", err.Error())
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)

		return
	}

	s.l.LogErrorf("Unhandled error: %v", err.Error())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) decodeReservation(w http.ResponseWriter, r *http.Request) (*inventory.ReserveInput, bool) {
	var req reservationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return nil, false
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"check_in": "provide check_in as YYYY-MM-DD"})

		return nil, false
	}

	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"check_out": "provide check_out as YYYY-MM-DD"})

		return nil, false
	}

	input := &inventory.ReserveInput{
		RoomTypeID: req.RoomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Quantity:   req.Quantity,
	}

	if req.PromoCode != "" {
		strategies, err := s.promos.Strategies(r.Context(), req.PromoCode)
		if err != nil {
			s.writeError(w, err)

			return nil, false
		}

		input.PromoStrategies = strategies
	}

	return input, true
}

func (s *Server) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeReservation(w, r)
	if !ok {
		return
	}

	confirmation, err := s.simulator.Reserve(r.Context(), input)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, confirmation)
}

func (s *Server) cancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeReservation(w, r)
	if !ok {
		return
	}

	if err := s.simulator.Cancel(r.Context(), input); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) availabilityTodayHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.query.AvailabilityToday(r.Context(), r.PathValue("hotelID"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) hotelDetailsHandler(w http.ResponseWriter, r *http.Request) {
	h, err := s.catalog.GetHotel(r.PathValue("hotelID"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	roomTypes, err := s.catalog.ListRoomTypes(h.ID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"hotel":      h,
		"room_types": roomTypes,
	})
}

func (s *Server) occupancyHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now().UTC()

	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"start": "provide start as YYYY-MM-DD"})

			return
		}

		start = parsed
	}

	days := 7

	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"days": "provide days as an integer"})

			return
		}

		days = parsed
	}

	out, err := s.query.AvailabilityForRange(r.Context(), r.PathValue("hotelID"), start, days)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	criteria, ok := s.decodeSearchCriteria(w, r)
	if !ok {
		return
	}

	out, err := s.engine.Filter(s.catalog.ListHotels(), criteria)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) decodeSearchCriteria(w http.ResponseWriter, r *http.Request) (search.Criteria, bool) {
	q := r.URL.Query()

	criteria := search.Criteria{
		Destination: q.Get("destination"),
		RoomType:    q.Get("roomType"),
		Sort:        q.Get("sort"),
	}

	if v := q.Get("amenities"); v != "" {
		criteria.Amenities = strings.Split(v, ",")
	}

	for _, bound := range []struct {
		param string
		dst   **float64
	}{
		{param: "minPrice", dst: &criteria.MinPrice},
		{param: "maxPrice", dst: &criteria.MaxPrice},
	} {
		v := q.Get(bound.param)
		if v == "" {
			continue
		}

		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{bound.param: "provide a numeric price bound"})

			return criteria, false
		}

		*bound.dst = &parsed
	}

	return criteria, true
}

func (s *Server) createHotelHandler(w http.ResponseWriter, r *http.Request) {
	var h hotel.Hotel

	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	if err := s.catalog.AddHotel(&h); err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, &h)
}

func (s *Server) createRoomTypeHandler(w http.ResponseWriter, r *http.Request) {
	var rt hotel.RoomType

	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	if err := s.catalog.AddRoomType(&rt); err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, &rt)
}

func (s *Server) setAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req availabilityUpdateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"date": "provide date as YYYY-MM-DD"})

		return
	}

	if err := s.ledger.SetAvailability(r.Context(), req.RoomTypeID, date, req.Quantity); err != nil {
		s.writeError(w, err)

		return
	}

	// Read back: the ledger clamps to [0, totalQuantity], so the stored
	// value can differ from the requested one.
	available, err := s.ledger.GetAvailability(r.Context(), req.RoomTypeID, date)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, inventory.AvailabilityRecord{
		RoomTypeID: req.RoomTypeID,
		Date:       inventory.Day(date),
		Available:  available,
	})
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		r.Handle(pattern, s.applyMiddlewares(h, s.loggerMiddleware(), s.recoverMiddleware()))
	}

	handle("POST /api/reservations/v1", s.createReservationHandler)
	handle("POST /api/reservations/v1/cancel", s.cancelReservationHandler)
	handle("GET /api/hotels/v1/search", s.searchHandler)
	handle("GET /api/hotels/v1/{hotelID}", s.hotelDetailsHandler)
	handle("GET /api/hotels/v1/{hotelID}/availability", s.availabilityTodayHandler)
	handle("GET /api/hotels/v1/{hotelID}/occupancy", s.occupancyHandler)
	handle("POST /api/admin/v1/hotels", s.createHotelHandler)
	handle("POST /api/admin/v1/room-types", s.createRoomTypeHandler)
	handle("PUT /api/admin/v1/availability", s.setAvailabilityHandler)
	handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), s.livenessHandler)
}
