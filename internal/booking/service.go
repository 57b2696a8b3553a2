// Package booking manages weddings' engagements of vendor listings, seen
// from both the couple and the vendor side.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/kafka"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/models"
	"wedding-planner/internal/patch"
	"wedding-planner/internal/validate"
)

const (
	vendorsOnly    = "Only vendors can access this endpoint"
	paidOutOfRange = "Paid amount must be between 0 and total amount"
)

type Service struct {
	DB     *db.DB
	Events kafka.Publisher
	Logger *logger.Logger
}

func NewService(store *db.DB, events kafka.Publisher, log *logger.Logger) *Service {
	return &Service{DB: store, Events: events, Logger: log}
}

type CreateRequest struct {
	VendorID string           `json:"vendorId"`
	Amount   *decimal.Decimal `json:"amount"`
	Notes    *string          `json:"notes"`
}

// UpdateRequest is shared by the couple and vendor payment endpoints.
// paymentStatus is recorded as given; it is not derived from paidAmount.
type UpdateRequest struct {
	Amount        patch.Field[decimal.Decimal] `json:"amount"`
	PaidAmount    patch.Field[decimal.Decimal] `json:"paidAmount"`
	PaymentStatus patch.Field[string]          `json:"paymentStatus"`
	Notes         patch.Field[string]          `json:"notes"`
}

func (s *Service) publish(ctx context.Context, topic string, b *models.Booking) {
	if s.Events == nil {
		return
	}
	payload := map[string]interface{}{
		"bookingId":     b.ID,
		"weddingId":     b.WeddingID,
		"vendorId":      b.VendorID,
		"amount":        b.Amount,
		"paidAmount":    b.PaidAmount,
		"paymentStatus": b.PaymentStatus,
	}
	if err := s.Events.Publish(ctx, topic, b.ID, payload); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s for booking %s: %v", topic, b.ID, err))
	}
}

// List returns the bookings of the caller's wedding, newest first.
func (s *Service) List(ctx context.Context, user *auth.ActingUser) ([]*models.Booking, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	w, err := s.DB.FindWeddingByUser(ctx, user.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return []*models.Booking{}, nil
		}
		return nil, fmt.Errorf("find wedding: %w", err)
	}
	bookings, err := s.DB.ListBookingsByWedding(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Create books a vendor for the caller's wedding. A wedding books a given
// vendor at most once.
func (s *Service) Create(ctx context.Context, user *auth.ActingUser, req CreateRequest) (*models.Booking, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	if validate.Blank(req.VendorID) || req.Amount == nil {
		return nil, apperr.Validation("Missing required fields")
	}
	if !validate.Positive(*req.Amount) {
		return nil, apperr.Validation("Amount must be greater than 0")
	}

	exists, err := s.DB.VendorExists(ctx, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("check vendor: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("Vendor not found")
	}
	w, err := s.DB.FindWeddingByUser(ctx, user.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Validation("Please create a wedding first")
		}
		return nil, fmt.Errorf("find wedding: %w", err)
	}

	booked, err := s.DB.BookingExists(ctx, w.ID, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("check booking: %w", err)
	}
	if booked {
		return nil, apperr.Conflict("Vendor already booked for this wedding")
	}

	b := &models.Booking{
		ID:            uuid.NewString(),
		WeddingID:     w.ID,
		VendorID:      req.VendorID,
		Amount:        *req.Amount,
		PaidAmount:    decimal.Zero,
		PaymentStatus: models.PaymentPending,
		Notes:         validate.Trimmed(req.Notes),
		BookingDate:   time.Now().UTC(),
	}
	if err := s.DB.CreateBooking(ctx, b); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Vendor already booked for this wedding")
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.Logger.LogDatabase("INSERT", "wedding_vendors", fmt.Sprintf("wedding %s booked vendor %s", w.ID, b.VendorID))
	s.publish(ctx, kafka.TopicBookingCreated, b)
	return s.DB.GetBooking(ctx, b.ID)
}

func coupleRule(store *db.DB, id string, policy access.Policy) access.Rule[*models.Booking] {
	return access.Rule[*models.Booking]{
		Load:     func(ctx context.Context) (*models.Booking, error) { return store.GetBooking(ctx, id) },
		Owner:    func(b *models.Booking) string { return access.WeddingOwner(b.Wedding) },
		Policy:   policy,
		NotFound: "Booking not found",
		Denied:   "You can only manage bookings of your own wedding",
	}
}

func (s *Service) Update(ctx context.Context, user *auth.ActingUser, id string, req UpdateRequest) (*models.Booking, error) {
	b, err := access.Authorize(ctx, user, coupleRule(s.DB, id, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, b, req, true)
}

func (s *Service) Cancel(ctx context.Context, user *auth.ActingUser, id string) error {
	b, err := access.Authorize(ctx, user, coupleRule(s.DB, id, access.OwnerOrAdmin))
	if err != nil {
		return err
	}
	if err := s.DB.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	s.Logger.LogDatabase("DELETE", "wedding_vendors", id)
	s.publish(ctx, kafka.TopicBookingCanceled, b)
	return nil
}

func vendorRule(store *db.DB, id string) access.Rule[*models.Booking] {
	return access.Rule[*models.Booking]{
		Load:        func(ctx context.Context) (*models.Booking, error) { return store.GetBookingForVendorOwner(ctx, id) },
		Owner:       func(b *models.Booking) string { return access.VendorOwner(b.Vendor) },
		Policy:      access.OwnerOnly,
		RequireRole: models.RoleVendor,
		NotFound:    "Booking not found",
		Denied:      "You can only manage bookings for your own services",
		Forbidden:   vendorsOnly,
	}
}

// ListForVendor returns bookings across every listing the vendor owns.
func (s *Service) ListForVendor(ctx context.Context, user *auth.ActingUser) ([]*models.Booking, error) {
	if err := access.RequireRole(user, models.RoleVendor, vendorsOnly); err != nil {
		return nil, err
	}
	bookings, err := s.DB.ListBookingsForVendorOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list vendor bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) GetForVendor(ctx context.Context, user *auth.ActingUser, id string) (*models.Booking, error) {
	return access.Authorize(ctx, user, vendorRule(s.DB, id))
}

// UpdateForVendor lets the listing owner record payments. The agreed amount
// stays with the couple.
func (s *Service) UpdateForVendor(ctx context.Context, user *auth.ActingUser, id string, req UpdateRequest) (*models.Booking, error) {
	b, err := access.Authorize(ctx, user, vendorRule(s.DB, id))
	if err != nil {
		return nil, err
	}
	if _, err := s.applyUpdate(ctx, b, req, false); err != nil {
		return nil, err
	}
	return s.DB.GetBookingForVendorOwner(ctx, id)
}

func (s *Service) applyUpdate(ctx context.Context, b *models.Booking, req UpdateRequest, allowAmount bool) (*models.Booking, error) {
	if req.PaidAmount.IsCleared() {
		req.PaidAmount = patch.Of(decimal.Zero)
	}
	if req.Amount.IsCleared() {
		return nil, apperr.Validation("Amount must be greater than 0")
	}
	if req.PaymentStatus.IsCleared() {
		return nil, apperr.Validation("Invalid payment status")
	}

	var columns []string
	amount := b.Amount
	if allowAmount && req.Amount.IsSet() {
		if !validate.Positive(req.Amount.Value) {
			return nil, apperr.Validation("Amount must be greater than 0")
		}
		amount = req.Amount.Value
		columns = append(columns, "amount")
	}
	paid := b.PaidAmount
	if req.PaidAmount.IsSet() {
		paid = req.PaidAmount.Value
		columns = append(columns, "paid_amount")
	}
	if paid.IsNegative() || paid.GreaterThan(amount) {
		return nil, apperr.Validation(paidOutOfRange)
	}
	if req.PaymentStatus.IsSet() {
		status := models.PaymentStatus(req.PaymentStatus.Value)
		if !status.Valid() {
			return nil, apperr.Validation("Invalid payment status")
		}
		b.PaymentStatus = status
		columns = append(columns, "payment_status")
	}
	if req.Notes.ApplyNullable(&b.Notes) {
		columns = append(columns, "notes")
	}
	b.Amount = amount
	b.PaidAmount = paid

	if len(columns) > 0 {
		if err := s.DB.UpdateBooking(ctx, b, columns...); err != nil {
			return nil, fmt.Errorf("update booking %s: %w", b.ID, err)
		}
		s.publish(ctx, kafka.TopicBookingUpdated, b)
	}
	return s.DB.GetBooking(ctx, b.ID)
}
