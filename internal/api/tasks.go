package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/wedding"
)

func (h *Handler) registerTaskRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Weddings.ListTasks(r.Context(), actingUser(r), r.URL.Query().Get("status"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req wedding.TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	task, err := h.Weddings.CreateTask(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, task)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.Weddings.GetTask(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req wedding.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	task, err := h.Weddings.UpdateTask(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Weddings.DeleteTask(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Task deleted successfully")
}
