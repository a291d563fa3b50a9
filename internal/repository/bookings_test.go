package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const lockListingSQL = `SELECT id, owner_id, title, price, status, available FROM listings WHERE id = \$1 FOR UPDATE`

var lockColumns = []string{"id", "owner_id", "title", "price", "status", "available"}

func newBooking() model.NewBooking {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return model.NewBooking{
		ID:        "b-1",
		ListingID: "l-1",
		RenterID:  "renter",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 3),
		Days:      3,
	}
}

func ownerNotifier(l *model.Listing, b *model.Booking) *model.Notification {
	return &model.Notification{
		ID:        "n-1",
		UserID:    l.OwnerID,
		Type:      model.NotificationBookingRequest,
		Title:     "New booking request",
		Body:      l.Title,
		CreatedAt: b.CreatedAt,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockListingSQL).
		WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows(lockColumns).AddRow("l-1", "owner", "Camera", 19.99, "ACTIVE", true))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs("b-1", "l-1", "renter", sqlmock.AnyArg(), sqlmock.AnyArg(), 59.97, "PENDING", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs("n-1", "owner", "BOOKING_REQUEST", "New booking request", "Camera", nil, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking, notification, err := repo.CreateBooking(context.Background(), newBooking(), ownerNotifier)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, 59.97, booking.TotalPrice)
	require.NotNil(t, booking.OwnerID)
	assert.Equal(t, "owner", *booking.OwnerID)
	assert.Equal(t, "owner", notification.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_RejectionsWriteNothing(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantErr error
	}{
		{
			name:    "unavailable listing",
			rows:    sqlmock.NewRows(lockColumns).AddRow("l-1", "owner", "Camera", 20.0, "ACTIVE", false),
			wantErr: ErrListingUnavailable,
		},
		{
			name:    "inactive listing",
			rows:    sqlmock.NewRows(lockColumns).AddRow("l-1", "owner", "Camera", 20.0, "ARCHIVED", true),
			wantErr: ErrListingUnavailable,
		},
		{
			name:    "own listing",
			rows:    sqlmock.NewRows(lockColumns).AddRow("l-1", "renter", "Camera", 20.0, "ACTIVE", true),
			wantErr: ErrSelfBooking,
		},
		{
			name:    "missing listing",
			rows:    sqlmock.NewRows(lockColumns),
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery(lockListingSQL).WithArgs("l-1").WillReturnRows(tt.rows)
			mock.ExpectRollback()

			notified := false
			booking, notification, err := repo.CreateBooking(context.Background(), newBooking(),
				func(l *model.Listing, b *model.Booking) *model.Notification {
					notified = true
					return ownerNotifier(l, b)
				})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, booking)
			assert.Nil(t, notification)
			assert.False(t, notified)
			// Any INSERT would be an unexpected call and fail here.
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateBooking_NotificationFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockListingSQL).
		WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows(lockColumns).AddRow("l-1", "owner", "Camera", 20.0, "ACTIVE", true))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO notifications`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, _, err := repo.CreateBooking(context.Background(), newBooking(), ownerNotifier)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var bookingRowColumns = []string{
	"id", "listing_id", "renter_id", "start_date", "end_date", "total_price", "status",
	"created_at", "updated_at", "listing_title", "owner_id",
}

func TestUpdateBookingStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bookingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(bookingRowColumns).
			AddRow("b-1", "l-1", "renter", start, start.AddDate(0, 0, 2), 40.0, "PENDING", start, start, "Camera", "owner")
	}

	t.Run("applies transition and notifies", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE b.id = \$1 FOR UPDATE OF b`).
			WithArgs("b-1").
			WillReturnRows(bookingRow())
		mock.ExpectExec(`UPDATE bookings SET status = \$2`).
			WithArgs("b-1", "CONFIRMED", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		booking, n, err := repo.UpdateBookingStatus(context.Background(), "b-1", func(b *model.Booking) (*model.Notification, error) {
			b.Status = model.BookingConfirmed
			return &model.Notification{ID: "n-2", UserID: b.RenterID, Type: model.NotificationBookingUpdate}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, booking.Status)
		assert.Equal(t, "renter", n.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected transition writes nothing", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF b`).WithArgs("b-1").WillReturnRows(bookingRow())
		mock.ExpectRollback()

		_, _, err := repo.UpdateBookingStatus(context.Background(), "b-1", func(*model.Booking) (*model.Notification, error) {
			return nil, apperr.BadRequest("cannot move booking from PENDING to COMPLETED")
		})
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, 400, e.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
