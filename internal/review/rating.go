package review

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"wedding-planner/internal/db"
)

// Mean is the arithmetic mean of the ratings, or zero when there are none.
// Division keeps decimal.DivisionPrecision fractional digits.
func Mean(ratings []int) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	sum := int64(0)
	for _, r := range ratings {
		sum += int64(r)
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings))))
}

// RecomputeRating rewrites the vendor's rating from its current reviews. It
// runs on whatever transaction store is bound to.
func (s *Service) RecomputeRating(ctx context.Context, store *db.DB, vendorID string) (decimal.Decimal, error) {
	ratings, err := store.VendorRatings(ctx, vendorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load ratings for %s: %w", vendorID, err)
	}
	rating := Mean(ratings)
	if err := store.UpdateVendorRating(ctx, vendorID, rating); err != nil {
		return decimal.Zero, fmt.Errorf("store rating for %s: %w", vendorID, err)
	}
	s.Logger.LogRating(vendorID, fmt.Sprintf("rating %s from %d reviews", rating.String(), len(ratings)))
	return rating, nil
}
