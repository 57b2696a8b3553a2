package wedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/models"
	"wedding-planner/internal/validate"
)

type EventRequest struct {
	Name  string  `json:"name"`
	Date  string  `json:"date"`
	Venue *string `json:"venue"`
	Notes *string `json:"notes"`
}

func newEvent(in EventRequest) (*models.WeddingEvent, error) {
	if validate.Blank(in.Name, in.Date) {
		return nil, apperr.Validation("Name and date are required")
	}
	date, err := validate.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	return &models.WeddingEvent{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Date:      date,
		Venue:     validate.Trimmed(in.Venue),
		Notes:     validate.Trimmed(in.Notes),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) AddEvent(ctx context.Context, user *auth.ActingUser, weddingID string, req EventRequest) (*models.WeddingEvent, error) {
	w, err := access.Authorize(ctx, user, weddingRule(s.DB, weddingID, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	ev, err := newEvent(req)
	if err != nil {
		return nil, err
	}
	ev.WeddingID = w.ID
	if err := s.DB.CreateEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return ev, nil
}

// RemoveEvent deletes an event that belongs to the given wedding.
func (s *Service) RemoveEvent(ctx context.Context, user *auth.ActingUser, weddingID, eventID string) error {
	w, err := access.Authorize(ctx, user, weddingRule(s.DB, weddingID, access.OwnerOrAdmin))
	if err != nil {
		return err
	}
	if eventID == "" {
		return apperr.Validation("Event ID required")
	}
	ev, err := s.DB.GetEvent(ctx, eventID)
	if err != nil && !db.IsNotFound(err) {
		return fmt.Errorf("load event %s: %w", eventID, err)
	}
	if ev == nil || ev.WeddingID != w.ID {
		return apperr.NotFound("Event not found")
	}
	if err := s.DB.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}
