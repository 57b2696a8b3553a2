package review

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/db/dbtest"
	"wedding-planner/internal/kafka"
	"wedding-planner/internal/lock"
	"wedding-planner/internal/logger"
	"wedding-planner/internal/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	return m.Called(ctx, topic, key, payload).Error(0)
}

type fixture struct {
	svc    *Service
	store  *db.DB
	events *mockPublisher
	vendor *models.Vendor
}

func setup(t *testing.T, locker lock.Locker) *fixture {
	t.Helper()
	store := dbtest.New(t)
	events := &mockPublisher{}
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	owner := dbtest.User(t, store, models.RoleVendor)
	return &fixture{
		svc:    NewService(store, locker, events, logger.Nop()),
		store:  store,
		events: events,
		vendor: dbtest.Vendor(t, store, owner, dbtest.Category(t, store, "Catering")),
	}
}

func (f *fixture) reviewer(t *testing.T, role models.Role) *auth.ActingUser {
	return &auth.ActingUser{ID: dbtest.User(t, f.store, role).ID, Role: role}
}

func (f *fixture) rating(t *testing.T) decimal.Decimal {
	t.Helper()
	v, err := f.store.GetVendor(context.Background(), f.vendor.ID)
	require.NoError(t, err)
	return v.Rating
}

func stars(n float64) *float64 { return &n }

func TestMean(t *testing.T) {
	assert.True(t, Mean(nil).IsZero())
	assert.Equal(t, "4.5", Mean([]int{4, 5}).String())
	assert.Equal(t, "1.6666666666666667", Mean([]int{1, 2, 2}).String())
}

func TestRatingFollowsReviews(t *testing.T) {
	f := setup(t, lock.NewLocal())
	ctx := context.Background()
	alice := f.reviewer(t, models.RoleCouple)
	bob := f.reviewer(t, models.RoleCouple)

	assert.True(t, f.rating(t).IsZero())

	first, err := f.svc.Create(ctx, alice, CreateRequest{VendorID: f.vendor.ID, Rating: stars(4)})
	require.NoError(t, err)
	assert.True(t, f.rating(t).Equal(decimal.NewFromInt(4)))

	_, err = f.svc.Create(ctx, bob, CreateRequest{VendorID: f.vendor.ID, Rating: stars(5)})
	require.NoError(t, err)
	assert.True(t, f.rating(t).Equal(decimal.RequireFromString("4.5")))

	require.NoError(t, f.svc.Delete(ctx, alice, first.ID))
	assert.True(t, f.rating(t).Equal(decimal.NewFromInt(5)))

	mine, err := f.svc.List(ctx, bob, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"rating":2,"comment":"changed my mind"}`), &req))
	_, err = f.svc.Update(ctx, bob, mine[0].ID, req)
	require.NoError(t, err)
	assert.True(t, f.rating(t).Equal(decimal.NewFromInt(2)))

	require.NoError(t, f.svc.Delete(ctx, bob, mine[0].ID))
	assert.True(t, f.rating(t).IsZero())

	f.events.AssertCalled(t, "Publish", mock.Anything, kafka.TopicVendorRating, f.vendor.ID, mock.Anything)
}

func TestCreateValidation(t *testing.T) {
	f := setup(t, lock.NewLocal())
	ctx := context.Background()
	user := f.reviewer(t, models.RoleCouple)

	_, err := f.svc.Create(ctx, user, CreateRequest{VendorID: f.vendor.ID})
	assert.Equal(t, "Vendor ID and rating are required", apperr.As(err).Message)

	for _, r := range []float64{0, 6, 3.5} {
		_, err = f.svc.Create(ctx, user, CreateRequest{VendorID: f.vendor.ID, Rating: stars(r)})
		assert.Equal(t, ratingRange, apperr.As(err).Message, r)
	}

	_, err = f.svc.Create(ctx, user, CreateRequest{VendorID: "missing", Rating: stars(3)})
	assert.Equal(t, apperr.KindNotFound, apperr.As(err).Kind)

	_, err = f.svc.Create(ctx, nil, CreateRequest{VendorID: f.vendor.ID, Rating: stars(3)})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.As(err).Kind)
}

func TestDuplicateReviewRejected(t *testing.T) {
	f := setup(t, lock.NewLocal())
	ctx := context.Background()
	user := f.reviewer(t, models.RoleCouple)

	_, err := f.svc.Create(ctx, user, CreateRequest{VendorID: f.vendor.ID, Rating: stars(5)})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, user, CreateRequest{VendorID: f.vendor.ID, Rating: stars(1)})
	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Contains(t, e.Message, "Use PUT")

	reviews, err := f.svc.List(ctx, user, f.vendor.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.True(t, f.rating(t).Equal(decimal.NewFromInt(5)))
}

func TestReviewOwnership(t *testing.T) {
	f := setup(t, lock.NewLocal())
	ctx := context.Background()
	author := f.reviewer(t, models.RoleCouple)
	other := f.reviewer(t, models.RoleCouple)
	admin := f.reviewer(t, models.RoleAdmin)

	r, err := f.svc.Create(ctx, author, CreateRequest{VendorID: f.vendor.ID, Rating: stars(3)})
	require.NoError(t, err)

	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"rating":1}`), &req))

	_, err = f.svc.Update(ctx, other, r.ID, req)
	assert.Equal(t, "You can only update your own reviews", apperr.As(err).Message)
	_, err = f.svc.Update(ctx, admin, r.ID, req)
	assert.Equal(t, apperr.KindUnauthorized, apperr.As(err).Kind)

	err = f.svc.Delete(ctx, other, r.ID)
	assert.Equal(t, "You can only delete your own reviews", apperr.As(err).Message)
	assert.True(t, f.rating(t).Equal(decimal.NewFromInt(3)))

	require.NoError(t, f.svc.Delete(ctx, admin, r.ID))
	assert.True(t, f.rating(t).IsZero())

	_, err = f.svc.Get(ctx, author, r.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.As(err).Kind)
}

func TestConcurrentReviewsUnderRedisLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	f := setup(t, lock.NewRedis(client, 5*time.Second, logger.Nop()))
	ctx := context.Background()

	users := make([]*auth.ActingUser, 8)
	for i := range users {
		users[i] = f.reviewer(t, models.RoleCouple)
	}

	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(u *auth.ActingUser, stars float64) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, u, CreateRequest{VendorID: f.vendor.ID, Rating: &stars})
			assert.NoError(t, err)
		}(u, float64(i%5+1))
	}
	wg.Wait()

	ratings, err := f.store.VendorRatings(ctx, f.vendor.ID)
	require.NoError(t, err)
	require.Len(t, ratings, len(users))
	assert.True(t, f.rating(t).Equal(Mean(ratings)))
}
