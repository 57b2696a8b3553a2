package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/db"
	"wedding-planner/internal/db/dbtest"
	"wedding-planner/internal/models"
)

func TestListTasksOrdering(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	w := dbtest.Wedding(t, store, couple)

	day := func(d int) time.Time { return time.Date(2027, 1, d, 0, 0, 0, 0, time.UTC) }
	input := []struct {
		title    string
		status   models.TaskStatus
		priority int
		deadline time.Time
	}{
		{"done-high", models.TaskCompleted, 3, day(1)},
		{"pending-low", models.TaskPending, 1, day(2)},
		{"progress-mid", models.TaskInProgress, 2, day(3)},
		{"pending-high-late", models.TaskPending, 3, day(9)},
		{"pending-high-early", models.TaskPending, 3, day(4)},
	}
	for _, in := range input {
		require.NoError(t, store.CreateTask(ctx, &models.Task{
			ID:        uuid.NewString(),
			Title:     in.title,
			Status:    in.status,
			Priority:  in.priority,
			Deadline:  in.deadline,
			WeddingID: w.ID,
		}))
	}

	tasks, err := store.ListTasks(ctx, w.ID, "")
	require.NoError(t, err)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{
		"pending-high-early",
		"pending-high-late",
		"pending-low",
		"progress-mid",
		"done-high",
	}, titles)

	pending, err := store.ListTasks(ctx, w.ID, models.TaskPending)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestListWeddingsCounts(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	vendorUser := dbtest.User(t, store, models.RoleVendor)
	cat := dbtest.Category(t, store, "Photography")
	v := dbtest.Vendor(t, store, vendorUser, cat)

	w := &models.Wedding{
		ID:     uuid.NewString(),
		Title:  "Summer",
		Date:   time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC),
		Venue:  "Garden",
		UserID: couple.ID,
	}
	events := []*models.WeddingEvent{
		{ID: uuid.NewString(), Name: "Reception", Date: time.Date(2027, 7, 1, 18, 0, 0, 0, time.UTC)},
		{ID: uuid.NewString(), Name: "Mehendi", Date: time.Date(2027, 6, 29, 18, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, store.CreateWedding(ctx, w, events))
	dbtest.Guest(t, store, w, "a@example.com")
	dbtest.Guest(t, store, w, "b@example.com")
	dbtest.Booking(t, store, w, v, 900)

	weddings, err := store.ListWeddingsByUser(ctx, couple.ID)
	require.NoError(t, err)
	require.Len(t, weddings, 1)

	got := weddings[0]
	require.Len(t, got.Events, 2)
	assert.Equal(t, "Mehendi", got.Events[0].Name)
	assert.Equal(t, &models.WeddingCounts{Guests: 2, Bookings: 1}, got.Counts)
}

func TestDeleteWeddingCascades(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	w := dbtest.Wedding(t, store, couple)
	g := dbtest.Guest(t, store, w, "guest@example.com")
	require.NoError(t, store.CreateRSVP(ctx, &models.RSVP{
		ID: uuid.NewString(), GuestID: g.ID, Status: models.RSVPAccepted, NoOfPersons: 2, RespondedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.DeleteWedding(ctx, w.ID))

	_, err := store.GetWedding(ctx, w.ID)
	assert.True(t, db.IsNotFound(err))
	_, err = store.GetGuest(ctx, g.ID)
	assert.True(t, db.IsNotFound(err))
	_, err = store.GetRSVPByGuest(ctx, g.ID)
	assert.True(t, db.IsNotFound(err))
}

func TestGuestUniquenessAndCascade(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	w := dbtest.Wedding(t, store, couple)
	g := dbtest.Guest(t, store, w, "dup@example.com")

	err := store.CreateGuest(ctx, &models.Guest{ID: uuid.NewString(), Name: "Again", Email: "dup@example.com", WeddingID: w.ID})
	assert.True(t, db.IsUniqueViolation(err))

	exists, err := store.GuestEmailExists(ctx, w.ID, "dup@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.GuestEmailExists(ctx, w.ID, "dup@example.com", g.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	emails, err := store.GuestEmails(ctx, w.ID)
	require.NoError(t, err)
	assert.Contains(t, emails, "dup@example.com")

	require.NoError(t, store.CreateRSVP(ctx, &models.RSVP{ID: uuid.NewString(), GuestID: g.ID, Status: models.RSVPPending, NoOfPersons: 1, RespondedAt: time.Now().UTC()}))
	loaded, err := store.GetGuest(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.RSVP)
	require.NotNil(t, loaded.Wedding)
	assert.Equal(t, couple.ID, loaded.Wedding.UserID)

	require.NoError(t, store.DeleteGuest(ctx, g.ID))
	_, err = store.GetRSVPByGuest(ctx, g.ID)
	assert.True(t, db.IsNotFound(err))
}

func TestBookingUniqueConstraint(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	vendorUser := dbtest.User(t, store, models.RoleVendor)
	w := dbtest.Wedding(t, store, couple)
	v := dbtest.Vendor(t, store, vendorUser, dbtest.Category(t, store, "Catering"))
	dbtest.Booking(t, store, w, v, 500)

	err := store.CreateBooking(ctx, &models.Booking{
		ID: uuid.NewString(), WeddingID: w.ID, VendorID: v.ID,
		Amount: decimal.NewFromInt(600), PaymentStatus: models.PaymentPending, BookingDate: time.Now().UTC(),
	})
	assert.True(t, db.IsUniqueViolation(err))

	exists, err := store.BookingExists(ctx, w.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := store.CountVendorBookings(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVendorOwnerBookings(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	vendorUser := dbtest.User(t, store, models.RoleVendor)
	otherVendor := dbtest.User(t, store, models.RoleVendor)
	cat := dbtest.Category(t, store, "Music")
	w := dbtest.Wedding(t, store, couple)
	mine := dbtest.Vendor(t, store, vendorUser, cat)
	theirs := dbtest.Vendor(t, store, otherVendor, cat)
	b := dbtest.Booking(t, store, w, mine, 800)
	dbtest.Booking(t, store, w, theirs, 400)

	bookings, err := store.ListBookingsForVendorOwner(ctx, vendorUser.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, b.ID, bookings[0].ID)
	require.NotNil(t, bookings[0].Wedding)
	require.NotNil(t, bookings[0].Wedding.User)
	assert.Equal(t, couple.Email, bookings[0].Wedding.User.Email)
	require.NotNil(t, bookings[0].Vendor.Category)
	assert.Equal(t, "Music", bookings[0].Vendor.Category.Name)
}

func TestVendorRatingsAndCascade(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	vendorUser := dbtest.User(t, store, models.RoleVendor)
	reviewer := dbtest.User(t, store, models.RoleCouple)
	v := dbtest.Vendor(t, store, vendorUser, dbtest.Category(t, store, "Venue"))

	require.NoError(t, store.CreateReview(ctx, &models.Review{ID: uuid.NewString(), VendorID: v.ID, UserID: reviewer.ID, Rating: 4}))
	err := store.CreateReview(ctx, &models.Review{ID: uuid.NewString(), VendorID: v.ID, UserID: reviewer.ID, Rating: 2})
	assert.True(t, db.IsUniqueViolation(err))

	ratings, err := store.VendorRatings(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ratings)

	require.NoError(t, store.UpdateVendorRating(ctx, v.ID, decimal.NewFromFloat(4.5)))
	loaded, err := store.GetVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(4.5).Equal(loaded.Rating))

	reviews, err := store.ListReviewsByVendor(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, reviewer.Email, reviews[0].User.Email)

	require.NoError(t, store.DeleteVendor(ctx, v.ID))
	ratings, err = store.VendorRatings(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestCategoriesWithCounts(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	vendorUser := dbtest.User(t, store, models.RoleVendor)
	photo := dbtest.Category(t, store, "Photography")
	dbtest.Category(t, store, "Decor")
	dbtest.Vendor(t, store, vendorUser, photo)
	dbtest.Vendor(t, store, vendorUser, photo)

	// same name again is a no-op
	require.NoError(t, store.EnsureCategory(ctx, &models.Category{ID: uuid.NewString(), Name: "Decor"}))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Decor", categories[0].Name)
	assert.Equal(t, 0, categories[0].Counts.Vendors)
	assert.Equal(t, 2, categories[1].Counts.Vendors)
}

func TestRunInTxRollsBack(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	couple := dbtest.User(t, store, models.RoleCouple)
	w := dbtest.Wedding(t, store, couple)

	boom := errors.New("boom")
	err := store.RunInTx(ctx, func(ctx context.Context, tx *db.DB) error {
		dbtest.Guest(t, tx, w, "rolled@example.com")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	guests, err := store.ListGuests(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, guests)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, db.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, db.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, db.IsUniqueViolation(nil))
}
