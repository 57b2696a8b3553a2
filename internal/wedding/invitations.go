package wedding

import (
	"context"
	"fmt"
	"time"

	"wedding-planner/internal/apperr"
	"wedding-planner/internal/db"
	"wedding-planner/internal/models"
)

const invitationNotFound = "Invitation not found"

// InvitationView is what a guest sees after scanning their QR code.
type InvitationView struct {
	GuestName string                 `json:"guestName"`
	Title     string                 `json:"title"`
	Date      time.Time              `json:"date"`
	Venue     string                 `json:"venue"`
	Events    []*models.WeddingEvent `json:"events"`
	RSVP      *models.RSVP           `json:"rsvp"`
}

// guestFromToken resolves an invitation token to its guest. Tokens that do not
// decrypt, or that point at a guest of another wedding, are treated as unknown.
func (s *Service) guestFromToken(ctx context.Context, token string) (*models.Guest, error) {
	inv, err := s.QR.ParseToken(token)
	if err != nil {
		s.Logger.LogSecurity("INVITATION", "rejected token: "+err.Error())
		return nil, apperr.NotFound(invitationNotFound)
	}
	g, err := s.DB.GetGuest(ctx, inv.GuestID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(invitationNotFound)
		}
		return nil, fmt.Errorf("get guest %s: %w", inv.GuestID, err)
	}
	if g.WeddingID != inv.WeddingID || g.Wedding == nil {
		return nil, apperr.NotFound(invitationNotFound)
	}
	return g, nil
}

func (s *Service) invitationView(ctx context.Context, g *models.Guest) (*InvitationView, error) {
	events, err := s.DB.ListEvents(ctx, g.WeddingID)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", g.WeddingID, err)
	}
	return &InvitationView{
		GuestName: g.Name,
		Title:     g.Wedding.Title,
		Date:      g.Wedding.Date,
		Venue:     g.Wedding.Venue,
		Events:    events,
		RSVP:      g.RSVP,
	}, nil
}

// OpenInvitation needs no session: possession of the token is the credential.
func (s *Service) OpenInvitation(ctx context.Context, token string) (*InvitationView, error) {
	g, err := s.guestFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.invitationView(ctx, g)
}

// RespondToInvitation records the guest's own answer with the same rules as
// the couple-side upsert.
func (s *Service) RespondToInvitation(ctx context.Context, token string, req RSVPRequest) (*InvitationView, error) {
	g, err := s.guestFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := s.saveRSVP(ctx, g, req); err != nil {
		return nil, err
	}
	return s.invitationView(ctx, g)
}
