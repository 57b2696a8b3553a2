package booking

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/db/dbtest"
	"wedding-planner/internal/kafka"
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
	svc         *Service
	store       *db.DB
	events      *mockPublisher
	couple      *auth.ActingUser
	stranger    *auth.ActingUser
	vendorOwner *auth.ActingUser
	otherVendor *auth.ActingUser
	wedding     *models.Wedding
	vendor      *models.Vendor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.New(t)
	events := &mockPublisher{}
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	couple := dbtest.User(t, store, models.RoleCouple)
	stranger := dbtest.User(t, store, models.RoleCouple)
	vOwner := dbtest.User(t, store, models.RoleVendor)
	vOther := dbtest.User(t, store, models.RoleVendor)
	cat := dbtest.Category(t, store, "Photography")

	return &fixture{
		svc:         NewService(store, events, logger.Nop()),
		store:       store,
		events:      events,
		couple:      &auth.ActingUser{ID: couple.ID, Role: models.RoleCouple},
		stranger:    &auth.ActingUser{ID: stranger.ID, Role: models.RoleCouple},
		vendorOwner: &auth.ActingUser{ID: vOwner.ID, Role: models.RoleVendor},
		otherVendor: &auth.ActingUser{ID: vOther.ID, Role: models.RoleVendor},
		wedding:     dbtest.Wedding(t, store, couple),
		vendor:      dbtest.Vendor(t, store, vOwner, cat),
	}
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func update(t *testing.T, body string) UpdateRequest {
	t.Helper()
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestCreateRejectsDuplicate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.couple, CreateRequest{VendorID: f.vendor.ID, Amount: money("1200")})
	require.NoError(t, err)
	require.NotNil(t, b.Vendor)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.True(t, b.PaidAmount.IsZero())
	f.events.AssertCalled(t, "Publish", mock.Anything, kafka.TopicBookingCreated, b.ID, mock.Anything)

	_, err = f.svc.Create(ctx, f.couple, CreateRequest{VendorID: f.vendor.ID, Amount: money("900")})
	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Equal(t, "Vendor already booked for this wedding", e.Message)

	bookings, err := f.svc.List(ctx, f.couple)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.couple, CreateRequest{VendorID: f.vendor.ID})
	assert.Equal(t, "Missing required fields", apperr.As(err).Message)

	_, err = f.svc.Create(ctx, f.couple, CreateRequest{VendorID: f.vendor.ID, Amount: money("0")})
	assert.Equal(t, apperr.KindValidation, apperr.As(err).Kind)

	_, err = f.svc.Create(ctx, f.couple, CreateRequest{VendorID: "missing", Amount: money("10")})
	assert.Equal(t, apperr.KindNotFound, apperr.As(err).Kind)

	noWedding := &auth.ActingUser{ID: dbtest.User(t, f.store, models.RoleCouple).ID, Role: models.RoleCouple}
	_, err = f.svc.Create(ctx, noWedding, CreateRequest{VendorID: f.vendor.ID, Amount: money("10")})
	assert.Equal(t, "Please create a wedding first", apperr.As(err).Message)

	list, err := f.svc.List(ctx, noWedding)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPaidAmountBound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := dbtest.Booking(t, f.store, f.wedding, f.vendor, 1000)

	_, err := f.svc.Update(ctx, f.couple, b.ID, update(t, `{"paidAmount":1000.01}`))
	assert.Equal(t, paidOutOfRange, apperr.As(err).Message)

	_, err = f.svc.Update(ctx, f.couple, b.ID, update(t, `{"paidAmount":-1}`))
	assert.Equal(t, paidOutOfRange, apperr.As(err).Message)

	_, err = f.svc.UpdateForVendor(ctx, f.vendorOwner, b.ID, update(t, `{"paidAmount":5000}`))
	assert.Equal(t, paidOutOfRange, apperr.As(err).Message)

	stored, err := f.store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())

	got, err := f.svc.Update(ctx, f.couple, b.ID, update(t, `{"paidAmount":400,"paymentStatus":"PARTIAL","notes":"deposit"}`))
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, models.PaymentPartial, got.PaymentStatus)

	_, err = f.svc.Update(ctx, f.couple, b.ID, update(t, `{"amount":300}`))
	assert.Equal(t, paidOutOfRange, apperr.As(err).Message, "lowering amount below paid")

	_, err = f.svc.Update(ctx, f.couple, b.ID, update(t, `{"paymentStatus":"REFUNDED"}`))
	assert.Equal(t, "Invalid payment status", apperr.As(err).Message)
}

func TestOwnershipExclusion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := dbtest.Booking(t, f.store, f.wedding, f.vendor, 1000)

	_, err := f.svc.Update(ctx, f.stranger, b.ID, update(t, `{"paidAmount":10}`))
	assert.Equal(t, apperr.KindUnauthorized, apperr.As(err).Kind)

	err = f.svc.Cancel(ctx, f.stranger, b.ID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.As(err).Kind)

	_, err = f.svc.GetForVendor(ctx, f.otherVendor, b.ID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.As(err).Kind)

	_, err = f.svc.GetForVendor(ctx, f.couple, b.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.As(err).Kind)

	_, err = f.svc.ListForVendor(ctx, f.couple)
	assert.Equal(t, vendorsOnly, apperr.As(err).Message)

	stored, err := f.store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())
}

func TestVendorSide(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := dbtest.Booking(t, f.store, f.wedding, f.vendor, 1000)

	list, err := f.svc.ListForVendor(ctx, f.vendorOwner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Wedding)
	require.NotNil(t, list[0].Wedding.User)
	assert.Equal(t, f.couple.ID, list[0].Wedding.User.ID)

	got, err := f.svc.UpdateForVendor(ctx, f.vendorOwner, b.ID, update(t, `{"paidAmount":1000,"paymentStatus":"COMPLETED","amount":1}`))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, got.PaymentStatus)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1000)), "vendors cannot change the agreed amount")

	require.NoError(t, f.svc.Cancel(ctx, f.couple, b.ID))
	f.events.AssertCalled(t, "Publish", mock.Anything, kafka.TopicBookingCanceled, b.ID, mock.Anything)
	list, err = f.svc.ListForVendor(ctx, f.vendorOwner)
	require.NoError(t, err)
	assert.Empty(t, list)
}
