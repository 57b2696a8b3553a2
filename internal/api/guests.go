package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/wedding"
)

func (h *Handler) registerGuestRoutes(r chi.Router) {
	r.Route("/guests", func(r chi.Router) {
		r.Get("/", h.ListGuests)
		r.Post("/", h.CreateGuest)
		r.Post("/bulk", h.BulkCreateGuests)
		r.Get("/{id}", h.GetGuest)
		r.Put("/{id}", h.UpdateGuest)
		r.Delete("/{id}", h.DeleteGuest)
		r.Get("/{id}/rsvp", h.GetRSVP)
		r.Put("/{id}/rsvp", h.UpsertRSVP)
		r.Delete("/{id}/rsvp", h.DeleteRSVP)
		r.Get("/{id}/invitation", h.GetInvitation)
	})
}

func (h *Handler) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.Weddings.ListGuests(r.Context(), actingUser(r))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, guests)
}

func (h *Handler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req wedding.GuestRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	guest, err := h.Weddings.CreateGuest(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, guest)
}

func (h *Handler) BulkCreateGuests(w http.ResponseWriter, r *http.Request) {
	var req wedding.BulkGuestsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	result, err := h.Weddings.BulkCreateGuests(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, result)
}

func (h *Handler) GetGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.Weddings.GetGuest(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, guest)
}

func (h *Handler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	var req wedding.UpdateGuestRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	guest, err := h.Weddings.UpdateGuest(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, guest)
}

func (h *Handler) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	if err := h.Weddings.DeleteGuest(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Guest deleted successfully")
}

// GetRSVP reports a guest who has not answered as PENDING.
func (h *Handler) GetRSVP(w http.ResponseWriter, r *http.Request) {
	rsvp, err := h.Weddings.GetRSVP(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	if rsvp == nil {
		sendJSONResponse(w, http.StatusOK, map[string]string{"status": "PENDING"})
		return
	}
	sendJSONResponse(w, http.StatusOK, rsvp)
}

func (h *Handler) UpsertRSVP(w http.ResponseWriter, r *http.Request) {
	var req wedding.RSVPRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	guest, err := h.Weddings.UpsertRSVP(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, guest)
}

func (h *Handler) DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	if err := h.Weddings.DeleteRSVP(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "RSVP deleted successfully")
}

func (h *Handler) GetInvitation(w http.ResponseWriter, r *http.Request) {
	png, err := h.Weddings.InvitationQR(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) OpenInvitation(w http.ResponseWriter, r *http.Request) {
	view, err := h.Weddings.OpenInvitation(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, view)
}

func (h *Handler) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	var req wedding.RSVPRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	view, err := h.Weddings.RespondToInvitation(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, view)
}
