// Package review manages vendor reviews and keeps each vendor's rating equal
// to the mean of its reviews.
package review

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/kafka"
	"wedding-planner/internal/lock"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/models"
	"wedding-planner/internal/patch"
	"wedding-planner/internal/validate"
)

const ratingRange = "Rating must be between 1 and 5"

type Service struct {
	DB     *db.DB
	Locker lock.Locker
	Events kafka.Publisher
	Logger *logger.Logger
}

func NewService(store *db.DB, locker lock.Locker, events kafka.Publisher, log *logger.Logger) *Service {
	return &Service{DB: store, Locker: locker, Events: events, Logger: log}
}

type CreateRequest struct {
	VendorID string   `json:"vendorId"`
	Rating   *float64 `json:"rating"`
	Comment  *string  `json:"comment"`
}

type UpdateRequest struct {
	Rating  patch.Field[float64] `json:"rating"`
	Comment patch.Field[string]  `json:"comment"`
}

func parseRating(v float64) (int, error) {
	if v != math.Trunc(v) || v < 1 || v > 5 {
		return 0, apperr.Validation(ratingRange)
	}
	return int(v), nil
}

// List returns a vendor's reviews, or the caller's own when vendorID is empty.
func (s *Service) List(ctx context.Context, user *auth.ActingUser, vendorID string) ([]*models.Review, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	var (
		reviews []*models.Review
		err     error
	)
	if vendorID != "" {
		reviews, err = s.DB.ListReviewsByVendor(ctx, vendorID)
	} else {
		reviews, err = s.DB.ListReviewsByUser(ctx, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *Service) Get(ctx context.Context, user *auth.ActingUser, id string) (*models.Review, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	r, err := s.DB.GetReview(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("Review not found")
		}
		return nil, fmt.Errorf("get review %s: %w", id, err)
	}
	return r, nil
}

func (s *Service) Create(ctx context.Context, user *auth.ActingUser, req CreateRequest) (*models.Review, error) {
	if err := access.RequireUser(user); err != nil {
		return nil, err
	}
	if req.VendorID == "" || req.Rating == nil {
		return nil, apperr.Validation("Vendor ID and rating are required")
	}
	rating, err := parseRating(*req.Rating)
	if err != nil {
		return nil, err
	}
	exists, err := s.DB.VendorExists(ctx, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("check vendor: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("Vendor not found")
	}

	now := time.Now().UTC()
	r := &models.Review{
		ID:        uuid.NewString(),
		VendorID:  req.VendorID,
		UserID:    user.ID,
		Rating:    rating,
		Comment:   validate.Trimmed(req.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.mutate(ctx, "created", r, func(ctx context.Context, tx *db.DB) error {
		dup, err := tx.ReviewExists(ctx, r.VendorID, r.UserID)
		if err != nil {
			return fmt.Errorf("check review: %w", err)
		}
		if dup {
			return alreadyReviewed()
		}
		if err := tx.CreateReview(ctx, r); err != nil {
			if db.IsUniqueViolation(err) {
				return alreadyReviewed()
			}
			return fmt.Errorf("create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.DB.GetReview(ctx, r.ID)
}

func alreadyReviewed() error {
	return apperr.Conflict("You have already reviewed this vendor. Use PUT to update your review.")
}

func (s *Service) Update(ctx context.Context, user *auth.ActingUser, id string, req UpdateRequest) (*models.Review, error) {
	r, err := access.Authorize(ctx, user, access.Rule[*models.Review]{
		Load:     func(ctx context.Context) (*models.Review, error) { return s.DB.GetReview(ctx, id) },
		Owner:    func(r *models.Review) string { return r.UserID },
		Policy:   access.OwnerOnly,
		NotFound: "Review not found",
		Denied:   "You can only update your own reviews",
	})
	if err != nil {
		return nil, err
	}
	if req.Rating.IsCleared() {
		return nil, apperr.Validation(ratingRange)
	}

	columns := []string{"updated_at"}
	if req.Rating.IsSet() {
		rating, err := parseRating(req.Rating.Value)
		if err != nil {
			return nil, err
		}
		r.Rating = rating
		columns = append(columns, "rating")
	}
	if req.Comment.ApplyNullable(&r.Comment) {
		columns = append(columns, "comment")
	}
	r.UpdatedAt = time.Now().UTC()

	err = s.mutate(ctx, "updated", r, func(ctx context.Context, tx *db.DB) error {
		if err := tx.UpdateReview(ctx, r, columns...); err != nil {
			return fmt.Errorf("update review %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.DB.GetReview(ctx, id)
}

func (s *Service) Delete(ctx context.Context, user *auth.ActingUser, id string) error {
	r, err := access.Authorize(ctx, user, access.Rule[*models.Review]{
		Load:     func(ctx context.Context) (*models.Review, error) { return s.DB.GetReview(ctx, id) },
		Owner:    func(r *models.Review) string { return r.UserID },
		Policy:   access.OwnerOrAdmin,
		NotFound: "Review not found",
		Denied:   "You can only delete your own reviews",
	})
	if err != nil {
		return err
	}
	return s.mutate(ctx, "deleted", r, func(ctx context.Context, tx *db.DB) error {
		if err := tx.DeleteReview(ctx, id); err != nil {
			return fmt.Errorf("delete review %s: %w", id, err)
		}
		return nil
	})
}

// mutate runs write and the rating recompute in one transaction while
// holding the vendor's lock. Events go out after commit.
func (s *Service) mutate(ctx context.Context, action string, r *models.Review, write func(ctx context.Context, tx *db.DB) error) error {
	unlock, err := s.Locker.Lock(ctx, r.VendorID)
	if err != nil {
		return fmt.Errorf("lock vendor %s: %w", r.VendorID, err)
	}
	defer unlock()

	var rating decimal.Decimal
	err = s.DB.RunInTx(ctx, func(ctx context.Context, tx *db.DB) error {
		if err := write(ctx, tx); err != nil {
			return err
		}
		var rerr error
		rating, rerr = s.RecomputeRating(ctx, tx, r.VendorID)
		return rerr
	})
	if err != nil {
		return err
	}

	s.publish(ctx, kafka.TopicReviewChanged, r.ID, map[string]interface{}{
		"action":   action,
		"reviewId": r.ID,
		"vendorId": r.VendorID,
		"userId":   r.UserID,
		"rating":   r.Rating,
	})
	s.publish(ctx, kafka.TopicVendorRating, r.VendorID, map[string]interface{}{
		"vendorId": r.VendorID,
		"rating":   rating,
	})
	return nil
}

func (s *Service) publish(ctx context.Context, topic, key string, payload interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, key, payload); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s for %s: %v", topic, key, err))
	}
}
