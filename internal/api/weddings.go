package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/wedding"
)

func (h *Handler) registerWeddingRoutes(r chi.Router) {
	r.Route("/weddings", func(r chi.Router) {
		r.Get("/", h.ListWeddings)
		r.Post("/", h.CreateWedding)
		r.Get("/{id}", h.GetWedding)
		r.Put("/{id}", h.UpdateWedding)
		r.Delete("/{id}", h.DeleteWedding)
		r.Post("/{id}/events", h.AddEvent)
		r.Delete("/{id}/events", h.RemoveEvent)
	})
}

func (h *Handler) ListWeddings(w http.ResponseWriter, r *http.Request) {
	weddings, err := h.Weddings.ListWeddings(r.Context(), actingUser(r))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, weddings)
}

func (h *Handler) CreateWedding(w http.ResponseWriter, r *http.Request) {
	var req wedding.CreateWeddingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	created, err := h.Weddings.CreateWedding(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, created)
}

func (h *Handler) GetWedding(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Weddings.GetWedding(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, detail)
}

func (h *Handler) UpdateWedding(w http.ResponseWriter, r *http.Request) {
	var req wedding.UpdateWeddingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	updated, err := h.Weddings.UpdateWedding(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, updated)
}

func (h *Handler) DeleteWedding(w http.ResponseWriter, r *http.Request) {
	if err := h.Weddings.DeleteWedding(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Wedding deleted successfully")
}

// AddEvent is mounted under both /weddings/{id}/events and
// /vendors/{id}/events; in both the id is the wedding's.
func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req wedding.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	ev, err := h.Weddings.AddEvent(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, ev)
}

func (h *Handler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if err := h.Weddings.RemoveEvent(r.Context(), actingUser(r), chi.URLParam(r, "id"), eventID); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Event deleted successfully")
}
