// Package wedding implements the couple side of the planner: weddings and
// their events, guests, RSVPs, tasks and expenses.
package wedding

import (
	"context"
	"fmt"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/kafka"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/models"
	"wedding-planner/internal/qr"
)

const noWeddingMessage = "Please create a wedding first"

type Service struct {
	DB     *db.DB
	Events kafka.Publisher
	QR     *qr.Generator
	Logger *logger.Logger
}

func NewService(store *db.DB, events kafka.Publisher, qrGen *qr.Generator, log *logger.Logger) *Service {
	return &Service{DB: store, Events: events, QR: qrGen, Logger: log}
}

// callerWedding returns the acting user's wedding, nil when they have none.
func (s *Service) callerWedding(ctx context.Context, user *auth.ActingUser) (*models.Wedding, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	w, err := s.DB.FindWeddingByUser(ctx, user.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find wedding for %s: %w", user.ID, err)
	}
	return w, nil
}

// requireWedding is callerWedding for writes, where a wedding must exist.
func (s *Service) requireWedding(ctx context.Context, user *auth.ActingUser) (*models.Wedding, error) {
	w, err := s.callerWedding(ctx, user)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.Validation(noWeddingMessage)
	}
	return w, nil
}

func (s *Service) publish(ctx context.Context, topic, key string, payload interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, key, payload); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s for %s: %v", topic, key, err))
	}
}

func weddingRule(store *db.DB, id string, policy access.Policy) access.Rule[*models.Wedding] {
	return access.Rule[*models.Wedding]{
		Load:     func(ctx context.Context) (*models.Wedding, error) { return store.GetWedding(ctx, id) },
		Owner:    access.WeddingOwner,
		Policy:   policy,
		NotFound: "Wedding not found",
		Denied:   "You can only manage your own wedding",
	}
}
