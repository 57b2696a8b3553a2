package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedding-planner/internal/booking"
	"wedding-planner/internal/vendor"
)

// registerVendorRoutes registers the authenticated /vendors paths flat,
// since the public reads share the same prefix in another group.
func (h *Handler) registerVendorRoutes(r chi.Router) {
	r.Put("/vendors/{id}", h.UpdateVendor)
	r.Delete("/vendors/{id}", h.DeleteVendor)
	r.Post("/vendors/{id}/events", h.AddEvent)
	r.Delete("/vendors/{id}/events", h.RemoveEvent)

	r.Get("/vendors/my-services", h.ListMyServices)
	r.Post("/vendors/my-services", h.CreateService)
	r.Get("/vendors/my-services/{id}", h.GetMyService)
	r.Put("/vendors/my-services/{id}", h.UpdateMyService)
	r.Delete("/vendors/my-services/{id}", h.DeleteMyService)

	r.Get("/vendors/my-bookings", h.ListVendorBookings)
	r.Get("/vendors/my-bookings/{id}", h.GetVendorBooking)
	r.Put("/vendors/my-bookings/{id}", h.UpdateVendorBooking)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Vendors.ListCategories(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, categories)
}

func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Vendors.List(r.Context(), r.URL.Query().Get("categoryId"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, vendors)
}

func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	v, err := h.Vendors.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, v)
}

func (h *Handler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	var req vendor.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	v, err := h.Vendors.Update(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, v)
}

func (h *Handler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.Vendors.Delete(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Service deleted successfully")
}

func (h *Handler) ListMyServices(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Vendors.ListMine(r.Context(), actingUser(r))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, vendors)
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req vendor.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	v, err := h.Vendors.Create(r.Context(), actingUser(r), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusCreated, v)
}

func (h *Handler) GetMyService(w http.ResponseWriter, r *http.Request) {
	v, err := h.Vendors.GetMine(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, v)
}

func (h *Handler) UpdateMyService(w http.ResponseWriter, r *http.Request) {
	var req vendor.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	v, err := h.Vendors.UpdateMine(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, v)
}

func (h *Handler) DeleteMyService(w http.ResponseWriter, r *http.Request) {
	if err := h.Vendors.DeleteMine(r.Context(), actingUser(r), chi.URLParam(r, "id")); err != nil {
		h.sendError(w, r, err)
		return
	}
	sendMessage(w, "Service deleted successfully")
}

func (h *Handler) ListVendorBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListForVendor(r.Context(), actingUser(r))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, bookings)
}

func (h *Handler) GetVendorBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.GetForVendor(r.Context(), actingUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, b)
}

func (h *Handler) UpdateVendorBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, err)
		return
	}
	b, err := h.Bookings.UpdateForVendor(r.Context(), actingUser(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, b)
}
