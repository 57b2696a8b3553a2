package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/booking"
)

func (h *Handler) registerBookingRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Post("/", h.CreateBooking)
		r.Put("/{id}", h.UpdateBooking)
		r.Delete("/{id}", h.CancelBooking)
	})
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.List(r.Context(), actingUser(r))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, bookings)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	b, err := h.Bookings.Create(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	b, err := h.Bookings.Update(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, b)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Cancel(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Booking cancelled successfully")
}
