package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/wedding"
)

func (h *Handler) registerExpenseRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.ListExpenses)
		r.Post("/", h.CreateExpense)
		r.Get("/{id}", h.GetExpense)
		r.Put("/{id}", h.UpdateExpense)
		r.Delete("/{id}", h.DeleteExpense)
	})
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Weddings.ListExpenses(r.Context(), actingUser(r), r.URL.Query().Get("categoryId"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req wedding.ExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	expense, err := h.Weddings.CreateExpense(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, expense)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := h.Weddings.GetExpense(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req wedding.UpdateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	expense, err := h.Weddings.UpdateExpense(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Weddings.DeleteExpense(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Expense deleted successfully")
}
