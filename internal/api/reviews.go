package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/review"
)

func (h *Handler) registerReviewRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.Post("/", h.CreateReview)
		r.Get("/{id}", h.GetReview)
		r.Put("/{id}", h.UpdateReview)
		r.Delete("/{id}", h.DeleteReview)
	})
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.List(r.Context(), actingUser(r), r.URL.Query().Get("vendorId"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, reviews)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req review.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	created, err := h.Reviews.Create(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, created)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Reviews.Get(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, rv)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req review.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	updated, err := h.Reviews.Update(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, updated)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.Reviews.Delete(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Review deleted successfully")
}
