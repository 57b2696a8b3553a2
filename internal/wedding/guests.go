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
	"wedding-planner/internal/patch"
	"wedding-planner/internal/validate"
)

type GuestRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type UpdateGuestRequest struct {
	Name    patch.Field[string] `json:"name"`
	Email   patch.Field[string] `json:"email"`
	Phone   patch.Field[string] `json:"phone"`
	Address patch.Field[string] `json:"address"`
	Notes   patch.Field[string] `json:"notes"`
}

type BulkGuestsRequest struct {
	Guests []GuestRequest `json:"guests"`
}

type BulkResult struct {
	Message    string `json:"message"`
	Created    int    `json:"created"`
	Duplicates int    `json:"duplicates"`
}

func guestRule(store *db.DB, id string, policy access.Policy) access.Rule[*models.Guest] {
	return access.Rule[*models.Guest]{
		Load:     func(ctx context.Context) (*models.Guest, error) { return store.GetGuest(ctx, id) },
		Owner:    func(g *models.Guest) string { return access.WeddingOwner(g.Wedding) },
		Policy:   policy,
		NotFound: "Guest not found",
		Denied:   "You can only manage guests of your own wedding",
	}
}

func newGuest(in GuestRequest, weddingID string, now time.Time) (*models.Guest, error) {
	if validate.Blank(in.Name, in.Email) {
		return nil, apperr.Validation("Name and email are required")
	}
	email := validate.NormalizeEmail(in.Email)
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	return &models.Guest{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     email,
		Phone:     validate.Trimmed(in.Phone),
		Address:   validate.Trimmed(in.Address),
		Notes:     validate.Trimmed(in.Notes),
		WeddingID: weddingID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ListGuests returns the caller's guests, newest first. No wedding means no
// guests.
func (s *Service) ListGuests(ctx context.Context, user *auth.ActingUser) ([]*models.Guest, error) {
	w, err := s.callerWedding(ctx, user)
	if err != nil || w == nil {
		return []*models.Guest{}, err
	}
	guests, err := s.DB.ListGuests(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}

func (s *Service) CreateGuest(ctx context.Context, user *auth.ActingUser, req GuestRequest) (*models.Guest, error) {
	w, err := s.requireWedding(ctx, user)
	if err != nil {
		return nil, err
	}
	g, err := newGuest(req, w.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	exists, err := s.DB.GuestEmailExists(ctx, w.ID, g.Email, "")
	if err != nil {
		return nil, fmt.Errorf("check guest email: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Guest with this email already exists")
	}
	if err := s.DB.CreateGuest(ctx, g); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Guest with this email already exists")
		}
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return g, nil
}

func (s *Service) GetGuest(ctx context.Context, user *auth.ActingUser, id string) (*models.Guest, error) {
	return access.Authorize(ctx, user, guestRule(s.DB, id, access.OwnerOrAdmin))
}

func (s *Service) UpdateGuest(ctx context.Context, user *auth.ActingUser, id string, req UpdateGuestRequest) (*models.Guest, error) {
	g, err := access.Authorize(ctx, user, guestRule(s.DB, id, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	if req.Name.IsCleared() || req.Email.IsCleared() {
		return nil, apperr.Validation("Name and email are required")
	}

	columns := []string{"updated_at"}
	if req.Name.Apply(&g.Name) {
		columns = append(columns, "name")
	}
	if req.Email.IsSet() {
		email := validate.NormalizeEmail(req.Email.Value)
		if err := validate.Email(email); err != nil {
			return nil, err
		}
		if email != g.Email {
			exists, err := s.DB.GuestEmailExists(ctx, g.WeddingID, email, g.ID)
			if err != nil {
				return nil, fmt.Errorf("check guest email: %w", err)
			}
			if exists {
				return nil, apperr.Conflict("Another guest with this email already exists")
			}
			g.Email = email
			columns = append(columns, "email")
		}
	}
	if req.Phone.ApplyNullable(&g.Phone) {
		columns = append(columns, "phone")
	}
	if req.Address.ApplyNullable(&g.Address) {
		columns = append(columns, "address")
	}
	if req.Notes.ApplyNullable(&g.Notes) {
		columns = append(columns, "notes")
	}

	g.UpdatedAt = time.Now().UTC()
	if err := s.DB.UpdateGuest(ctx, g, columns...); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Another guest with this email already exists")
		}
		return nil, fmt.Errorf("update guest %s: %w", id, err)
	}
	return s.DB.GetGuest(ctx, id)
}

// DeleteGuest removes the guest together with its RSVP.
func (s *Service) DeleteGuest(ctx context.Context, user *auth.ActingUser, id string) error {
	if _, err := access.Authorize(ctx, user, guestRule(s.DB, id, access.OwnerOrAdmin)); err != nil {
		return err
	}
	if err := s.DB.DeleteGuest(ctx, id); err != nil {
		return fmt.Errorf("delete guest %s: %w", id, err)
	}
	return nil
}

// BulkCreateGuests imports a guest list, skipping emails already on the
// wedding or repeated within the batch. Running the same import twice
// creates nothing the second time.
func (s *Service) BulkCreateGuests(ctx context.Context, user *auth.ActingUser, req BulkGuestsRequest) (*BulkResult, error) {
	w, err := s.requireWedding(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(req.Guests) == 0 {
		return nil, apperr.Validation("Guests array is required")
	}

	now := time.Now().UTC()
	candidates := make([]*models.Guest, 0, len(req.Guests))
	for _, in := range req.Guests {
		if validate.Blank(in.Name, in.Email) {
			return nil, apperr.Validation("Each guest must have a name and email")
		}
		g, err := newGuest(in, w.ID, now)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, g)
	}

	result := &BulkResult{}
	err = s.DB.RunInTx(ctx, func(ctx context.Context, tx *db.DB) error {
		seen, err := tx.GuestEmails(ctx, w.ID)
		if err != nil {
			return fmt.Errorf("load guest emails: %w", err)
		}
		fresh := make([]*models.Guest, 0, len(candidates))
		for _, g := range candidates {
			if _, dup := seen[g.Email]; dup {
				result.Duplicates++
				continue
			}
			seen[g.Email] = struct{}{}
			fresh = append(fresh, g)
		}
		if len(fresh) == 0 {
			return apperr.Conflict("All guests already exist").With("duplicates", result.Duplicates)
		}
		if err := tx.CreateGuests(ctx, fresh); err != nil {
			if db.IsUniqueViolation(err) {
				return apperr.Conflict("Some guests were added concurrently, please retry the import")
			}
			return fmt.Errorf("insert guests: %w", err)
		}
		result.Created = len(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Message = "Guests imported successfully"
	s.Logger.LogDatabase("INSERT", "guests", fmt.Sprintf("bulk import: %d created, %d duplicates", result.Created, result.Duplicates))
	return result, nil
}
