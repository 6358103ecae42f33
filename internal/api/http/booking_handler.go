package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
	"carrental-backend/internal/utils"
)

type BookingHandler struct {
	bookings service.BookingService
	validate *validator.Validate
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		validate: validator.New(),
	}
}

type quoteRequest struct {
	VehicleID string `json:"vehicleId" validate:"required"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	TimeOfDay string `json:"timeOfDay" validate:"omitempty,datetime=15:04"`
	Area      string `json:"area"`
	Duration  string `json:"duration"`
}

type quoteResponse struct {
	Hours            int    `json:"hours"`
	Days             int    `json:"days"`
	TotalPrice       int64  `json:"totalPrice"`
	Show12HourOption bool   `json:"show12HourOption"`
	Show24HourOption bool   `json:"show24HourOption"`
	Duration         string `json:"duration"`
}

// Quote handles POST /api/v1/quotes. Incomplete drafts are not an error; they
// return a zeroed quote so the caller can poll as the customer fills the form.
func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	draft := utils.BookingDraft{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		TimeOfDay: req.TimeOfDay,
		Area:      domain.Area(req.Area),
	}
	if req.Duration != "" {
		selected, err := domain.ParseDurationOption(req.Duration)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		draft.Duration = selected
	}

	quote, selection, err := h.bookings.Quote(r.Context(), req.VehicleID, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Hours:            quote.Hours,
		Days:             quote.Days,
		TotalPrice:       quote.TotalPrice,
		Show12HourOption: quote.Show12HourOption,
		Show24HourOption: quote.Show24HourOption,
		Duration:         string(selection),
	})
}

type createBookingRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	VehicleID string `json:"vehicleId" validate:"required"`
	Area      string `json:"area" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	TimeOfDay string `json:"timeOfDay" validate:"required,datetime=15:04"`
	Duration  string `json:"duration"`
	SelfDrive string `json:"selfDrive" validate:"required,oneof=Yes No"`

	NotificationPreference []string `json:"notificationPreference" validate:"dive,oneof=SMS Email"`
}

// Create handles POST /api/v1/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var pref domain.NotificationPreference
	for _, ch := range req.NotificationPreference {
		pref = append(pref, domain.NotificationChannel(ch))
	}

	booking, err := h.bookings.CreateBooking(r.Context(), service.CreateBookingInput{
		Customer: domain.Customer{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
		},
		VehicleID:              req.VehicleID,
		Area:                   domain.Area(req.Area),
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		TimeOfDay:              req.TimeOfDay,
		Duration:               req.Duration,
		SelfDrive:              req.SelfDrive,
		NotificationPreference: pref,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// Get handles GET /api/v1/staff/bookings/{id}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.GetBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type listBookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int32            `json:"total"`
	Page     int32            `json:"page"`
	PageSize int32            `json:"pageSize"`
}

// List handles GET /api/v1/staff/bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "pageSize", 20)

	bookings, total, err := h.bookings.ListBookings(r.Context(), status, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listBookingsResponse{
		Bookings: bookings,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// Availability handles GET /api/v1/vehicles/{id}/availability?start=&end=.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["id"]
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start and end query parameters are required"})
		return
	}

	available, err := h.bookings.CheckAvailability(r.Context(), vehicleID, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: available})
}

// CustomerCancel handles POST /api/v1/bookings/{id}/cancel. The cancellation
// notice wording differs from a staff cancellation.
func (h *BookingHandler) CustomerCancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Transition(r.Context(), mux.Vars(r)["id"], "cancel", nil, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type bulkActionRequest struct {
	BookingIDs []string               `json:"bookingIds"`
	Action     string                 `json:"action" validate:"required"`
	Payload    *service.FinishPayload `json:"payload,omitempty"`
}

type bulkActionResponse struct {
	Results []service.ActionResult `json:"results"`
}

// BulkAction handles POST /api/v1/staff/bookings/actions. A literally empty
// ID list is rejected; per-booking failures come back in the results with a
// 200, never as a request-level error.
func (h *BookingHandler) BulkAction(w http.ResponseWriter, r *http.Request) {
	var req bulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(req.BookingIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bookingIds must not be empty"})
		return
	}

	results, err := h.bookings.BulkTransition(r.Context(), req.Action, req.BookingIDs, req.Payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkActionResponse{Results: results})
}

type extendRequest struct {
	NewEndDate string `json:"newEndDate" validate:"required,datetime=2006-01-02"`
}

// Extend handles POST /api/v1/staff/bookings/{id}/extend.
func (h *BookingHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	booking, err := h.bookings.ExtendBooking(r.Context(), mux.Vars(r)["id"], req.NewEndDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// MarkReturned handles POST /api/v1/staff/bookings/{id}/return.
func (h *BookingHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.MarkReturned(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n <= 0 {
		return def
	}
	return int32(n)
}
