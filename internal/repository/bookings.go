package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const bookingColumns = `
	b.id, b.listing_id, b.renter_id, b.start_date, b.end_date, b.total_price, b.status,
	b.created_at, b.updated_at, l.title AS listing_title, l.owner_id`

// BookingNotifier builds the notification written together with a booking change.
type BookingNotifier func(listing *model.Listing, booking *model.Booking) *model.Notification

// CreateBooking locks the listing, checks it can be booked by the renter and
// writes the booking and the owner's notification in one transaction.
// Rejections return ErrNotFound, ErrListingUnavailable or ErrSelfBooking
// with nothing written.
func (r *PostgresRepository) CreateBooking(ctx context.Context, nb model.NewBooking, notify BookingNotifier) (*model.Booking, *model.Notification, error) {
	var booking *model.Booking
	var notification *model.Notification

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var listing model.Listing
		err := tx.GetContext(ctx, &listing,
			`SELECT id, owner_id, title, price, status, available FROM listings WHERE id = $1 FOR UPDATE`, nb.ListingID)
		if err != nil {
			if isMissing(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock listing: %w", err)
		}
		if listing.Status != model.ListingActive || !listing.Available {
			return ErrListingUnavailable
		}
		if listing.OwnerID == nb.RenterID {
			return ErrSelfBooking
		}

		ts := now()
		owner := listing.OwnerID
		title := listing.Title
		booking = &model.Booking{
			ID:           nb.ID,
			ListingID:    nb.ListingID,
			RenterID:     nb.RenterID,
			StartDate:    nb.StartDate,
			EndDate:      nb.EndDate,
			TotalPrice:   math.Round(listing.Price*float64(nb.Days)*100) / 100,
			Status:       model.BookingPending,
			ListingTitle: &title,
			OwnerID:      &owner,
			CreatedAt:    ts,
			UpdatedAt:    ts,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bookings (id, listing_id, renter_id, start_date, end_date, total_price, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			booking.ID, booking.ListingID, booking.RenterID, booking.StartDate, booking.EndDate,
			booking.TotalPrice, string(booking.Status), booking.CreatedAt, booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		notification = notify(&listing, booking)
		return insertNotification(ctx, tx, notification)
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, notification, nil
}

// BookingTransition validates and applies a status change to a locked booking
// and returns the notification for the other party.
type BookingTransition func(booking *model.Booking) (*model.Notification, error)

// UpdateBookingStatus locks the booking, lets apply decide the new status and
// writes the change and the notification in one transaction. An error from
// apply is returned as is with nothing written.
func (r *PostgresRepository) UpdateBookingStatus(ctx context.Context, id string, apply BookingTransition) (*model.Booking, *model.Notification, error) {
	var booking model.Booking
	var notification *model.Notification

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE b.id = $1 FOR UPDATE OF b`, bookingColumns)
		if err := tx.GetContext(ctx, &booking, query, id); err != nil {
			if isMissing(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		var err error
		notification, err = apply(&booking)
		if err != nil {
			return err
		}

		booking.UpdatedAt = now()
		if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
			booking.ID, string(booking.Status), booking.UpdatedAt); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		return insertNotification(ctx, tx, notification)
	})
	if err != nil {
		return nil, nil, err
	}
	return &booking, notification, nil
}

// ListRenterBookings returns the bookings a user made
func (r *PostgresRepository) ListRenterBookings(ctx context.Context, renterID string) ([]model.Booking, error) {
	return r.listBookings(ctx, "b.renter_id = $1", renterID)
}

// ListOwnerBookings returns bookings made on a user's listings
func (r *PostgresRepository) ListOwnerBookings(ctx context.Context, ownerID string) ([]model.Booking, error) {
	return r.listBookings(ctx, "l.owner_id = $1", ownerID)
}

func (r *PostgresRepository) listBookings(ctx context.Context, where string, arg any) ([]model.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings b JOIN listings l ON l.id = b.listing_id WHERE %s ORDER BY b.created_at DESC`,
		bookingColumns, where)
	bookings := []model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, arg); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// CountBookingsByStatus groups all bookings by status
func (r *PostgresRepository) CountBookingsByStatus(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
}
