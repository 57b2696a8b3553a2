package wedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/kafka"
	"wedding-planner/internal/models"
	"wedding-planner/internal/patch"
	"wedding-planner/internal/qr"
)

type RSVPRequest struct {
	Status      patch.Field[string]  `json:"status"`
	NoOfPersons patch.Field[float64] `json:"noOfPersons"`
	Message     patch.Field[string]  `json:"message"`
}

// GetRSVP returns the guest's RSVP, or nil when the guest has not answered.
func (s *Service) GetRSVP(ctx context.Context, user *auth.ActingUser, guestID string) (*models.RSVP, error) {
	g, err := access.Authorize(ctx, user, guestRule(s.DB, guestID, access.OwnerOrAdmin))
	if err != nil {
		return nil, err
	}
	return g.RSVP, nil
}

// UpsertRSVP creates the guest's RSVP or updates it in place. A guest never
// has more than one RSVP row.
func (s *Service) UpsertRSVP(ctx context.Context, user *auth.ActingUser, guestID string, req RSVPRequest) (*models.Guest, error) {
	g, err := access.Authorize(ctx, user, guestRule(s.DB, guestID, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	return s.saveRSVP(ctx, g, req)
}

func (s *Service) saveRSVP(ctx context.Context, g *models.Guest, req RSVPRequest) (*models.Guest, error) {
	if req.Status.IsSet() && !models.RSVPStatus(req.Status.Value).Valid() {
		return nil, apperr.Validation("Invalid RSVP status. Must be PENDING, ACCEPTED, or REJECTED")
	}
	if req.Status.IsCleared() {
		return nil, apperr.Validation("Invalid RSVP status. Must be PENDING, ACCEPTED, or REJECTED")
	}
	if req.NoOfPersons.IsCleared() {
		return nil, apperr.Validation("Number of persons must be a positive integer")
	}
	if req.NoOfPersons.IsSet() {
		n := req.NoOfPersons.Value
		if n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
			return nil, apperr.Validation("Number of persons must be a positive integer")
		}
	}

	var saved *models.RSVP
	err := s.DB.RunInTx(ctx, func(ctx context.Context, tx *db.DB) error {
		existing, err := tx.GetRSVPByGuest(ctx, g.ID)
		if err != nil && !db.IsNotFound(err) {
			return fmt.Errorf("load rsvp: %w", err)
		}
		now := time.Now().UTC()

		if existing == nil {
			r := &models.RSVP{
				ID:          uuid.NewString(),
				GuestID:     g.ID,
				Status:      models.RSVPPending,
				NoOfPersons: 1,
				RespondedAt: now,
			}
			applyRSVP(r, req)
			if err := tx.CreateRSVP(ctx, r); err != nil {
				return fmt.Errorf("create rsvp: %w", err)
			}
			saved = r
			return nil
		}

		applyRSVP(existing, req)
		existing.RespondedAt = now
		if err := tx.UpdateRSVP(ctx, existing, "status", "no_of_persons", "message", "responded_at"); err != nil {
			return fmt.Errorf("update rsvp: %w", err)
		}
		saved = existing
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("RSVP was updated concurrently, please retry")
		}
		return nil, err
	}

	g.RSVP = saved
	s.publish(ctx, kafka.TopicRSVPUpdated, g.ID, map[string]interface{}{
		"guestId":     g.ID,
		"weddingId":   g.WeddingID,
		"status":      saved.Status,
		"noOfPersons": saved.NoOfPersons,
	})
	return g, nil
}

func applyRSVP(r *models.RSVP, req RSVPRequest) {
	if req.Status.IsSet() {
		r.Status = models.RSVPStatus(req.Status.Value)
	}
	if req.NoOfPersons.IsSet() {
		r.NoOfPersons = int(req.NoOfPersons.Value)
	}
	req.Message.ApplyNullable(&r.Message)
}

func (s *Service) DeleteRSVP(ctx context.Context, user *auth.ActingUser, guestID string) error {
	g, err := access.Authorize(ctx, user, guestRule(s.DB, guestID, access.OwnerOrAdmin))
	if err != nil {
		return err
	}
	if g.RSVP == nil {
		return apperr.NotFound("No RSVP to delete")
	}
	if err := s.DB.DeleteRSVP(ctx, g.ID); err != nil {
		return fmt.Errorf("delete rsvp for %s: %w", g.ID, err)
	}
	return nil
}

// InvitationQR renders the guest's personal RSVP link as a PNG QR code.
func (s *Service) InvitationQR(ctx context.Context, user *auth.ActingUser, guestID string) ([]byte, error) {
	g, err := access.Authorize(ctx, user, guestRule(s.DB, guestID, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	png, err := s.QR.PNG(qr.Invitation{GuestID: g.ID, WeddingID: g.WeddingID})
	if err != nil {
		return nil, fmt.Errorf("render invitation for %s: %w", g.ID, err)
	}
	return png, nil
}
