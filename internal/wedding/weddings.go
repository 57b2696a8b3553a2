package wedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/models"
	"wedding-planner/internal/patch"
	"wedding-planner/internal/validate"
)

type CreateWeddingRequest struct {
	Title  string           `json:"title"`
	Date   string           `json:"date"`
	Venue  string           `json:"venue"`
	Budget *decimal.Decimal `json:"budget"`
	Events []EventRequest   `json:"events"`
}

type UpdateWeddingRequest struct {
	Title  patch.Field[string]          `json:"title"`
	Date   patch.Field[string]          `json:"date"`
	Venue  patch.Field[string]          `json:"venue"`
	Budget patch.Field[decimal.Decimal] `json:"budget"`
}

func (s *Service) ListWeddings(ctx context.Context, user *auth.ActingUser) ([]*models.Wedding, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	weddings, err := s.DB.ListWeddingsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list weddings: %w", err)
	}
	return weddings, nil
}

func (s *Service) CreateWedding(ctx context.Context, user *auth.ActingUser, req CreateWeddingRequest) (*models.Wedding, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	if validate.Blank(req.Title, req.Date, req.Venue) {
		return nil, apperr.Validation("Missing required fields")
	}
	date, err := validate.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	budget := decimal.Zero
	if req.Budget != nil {
		budget = *req.Budget
	}
	if budget.IsNegative() {
		return nil, apperr.Validation("Budget cannot be negative")
	}

	events := make([]*models.WeddingEvent, 0, len(req.Events))
	for _, in := range req.Events {
		ev, err := newEvent(in)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	now := time.Now().UTC()
	w := &models.Wedding{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Date:      date,
		Venue:     req.Venue,
		Budget:    budget,
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.DB.CreateWedding(ctx, w, events); err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	if w.Events == nil {
		w.Events = []*models.WeddingEvent{}
	}
	s.Logger.LogDatabase("INSERT", "weddings", w.ID)
	return w, nil
}

// GetWedding returns the wedding with every nested collection.
func (s *Service) GetWedding(ctx context.Context, user *auth.ActingUser, id string) (*models.Wedding, error) {
	return access.Authorize(ctx, user, access.Rule[*models.Wedding]{
		Load:     func(ctx context.Context) (*models.Wedding, error) { return s.DB.GetWeddingDetail(ctx, id) },
		Owner:    access.WeddingOwner,
		Policy:   access.OwnerOrAdmin,
		NotFound: "Wedding not found",
		Denied:   "You can only view your own wedding",
	})
}

func (s *Service) UpdateWedding(ctx context.Context, user *auth.ActingUser, id string, req UpdateWeddingRequest) (*models.Wedding, error) {
	w, err := access.Authorize(ctx, user, weddingRule(s.DB, id, access.OwnerOnly))
	if err != nil {
		return nil, err
	}

	if req.Title.IsCleared() || req.Date.IsCleared() || req.Venue.IsCleared() {
		return nil, apperr.Validation("Title, date and venue cannot be empty")
	}
	columns := []string{"updated_at"}
	if req.Title.Apply(&w.Title) {
		columns = append(columns, "title")
	}
	if req.Venue.Apply(&w.Venue) {
		columns = append(columns, "venue")
	}
	if req.Date.IsSet() {
		date, err := validate.ParseDate(req.Date.Value)
		if err != nil {
			return nil, err
		}
		w.Date = date
		columns = append(columns, "date")
	}
	if req.Budget.IsCleared() {
		req.Budget = patch.Of(decimal.Zero)
	}
	if req.Budget.IsSet() {
		if req.Budget.Value.IsNegative() {
			return nil, apperr.Validation("Budget cannot be negative")
		}
		w.Budget = req.Budget.Value
		columns = append(columns, "budget")
	}

	w.UpdatedAt = time.Now().UTC()
	if err := s.DB.UpdateWedding(ctx, w, columns...); err != nil {
		return nil, fmt.Errorf("update wedding %s: %w", id, err)
	}
	return s.DB.GetWeddingDetail(ctx, id)
}

func (s *Service) DeleteWedding(ctx context.Context, user *auth.ActingUser, id string) error {
	if _, err := access.Authorize(ctx, user, weddingRule(s.DB, id, access.OwnerOrAdmin)); err != nil {
		return err
	}
	if err := s.DB.DeleteWedding(ctx, id); err != nil {
		return fmt.Errorf("delete wedding %s: %w", id, err)
	}
	s.Logger.LogDatabase("DELETE", "weddings", id)
	return nil
}
