// Package api exposes the planner over REST/JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wedding-planner/internal/auth"
	"wedding-planner/internal/booking"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/review"
	"wedding-planner/internal/vendor"
	"wedding-planner/internal/wedding"
)

type Handler struct {
	Weddings *wedding.Service
	Vendors  *vendor.Service
	Bookings *booking.Service
	Reviews  *review.Service
	Logger   *logger.Logger

	// Ping checks the store for /healthz.
	Ping func(ctx context.Context) error
}

type Options struct {
	Auth           *auth.Authenticator
	AllowedOrigins []string
}

// Router builds the HTTP surface. Fixed segments such as
// /vendors/my-services win over /vendors/{id} in chi's tree.
func (h *Handler) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.Logger.Middleware)
	r.Use(h.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.Optional)
			r.Get("/categories", h.ListCategories)
			r.Get("/vendors", h.ListVendors)
			r.Get("/vendors/{id}", h.GetVendor)
		})

		// Invitation links carry their own credential.
		r.Get("/invitations/{token}", h.OpenInvitation)
		r.Put("/invitations/{token}/rsvp", h.RespondToInvitation)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.Required)
			h.registerWeddingRoutes(r)
			h.registerGuestRoutes(r)
			h.registerTaskRoutes(r)
			h.registerExpenseRoutes(r)
			h.registerBookingRoutes(r)
			h.registerVendorRoutes(r)
			h.registerReviewRoutes(r)
		})
	})

	h.Logger.Info("ROUTER", "API routes registered under /api")
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			h.Logger.Warn("DATABASE", "health check failed: "+err.Error())
			sendJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	sendJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func actingUser(r *http.Request) *auth.ActingUser {
	return auth.FromContext(r.Context())
}
