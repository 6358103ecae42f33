package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"carrental-backend/internal/security"
)

// NewRouter builds the HTTP routing table. Customer endpoints are open; the
// staff subtree sits behind JWT auth.
func NewRouter(bookings *BookingHandler, auth *AuthHandler, tokens security.TokenManager) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)

	// Customer endpoints
	api.HandleFunc("/quotes", bookings.Quote).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", bookings.CustomerCancel).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}/availability", bookings.Availability).Methods(http.MethodGet)

	// Staff endpoints
	staff := api.PathPrefix("/staff").Subrouter()
	staff.Use(AuthMiddleware(tokens))
	staff.HandleFunc("/bookings", bookings.List).Methods(http.MethodGet)
	staff.HandleFunc("/bookings/{id}", bookings.Get).Methods(http.MethodGet)
	staff.HandleFunc("/bookings/actions", bookings.BulkAction).Methods(http.MethodPost)
	staff.HandleFunc("/bookings/{id}/extend", bookings.Extend).Methods(http.MethodPost)
	staff.HandleFunc("/bookings/{id}/return", bookings.MarkReturned).Methods(http.MethodPost)

	return r
}
