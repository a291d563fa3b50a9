package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

// BookingParty is the side of a booking a user is on
type BookingParty string

const (
	PartyOwner  BookingParty = "owner"
	PartyRenter BookingParty = "renter"
)

// bookingTransitions lists the allowed status changes per party.
var bookingTransitions = map[BookingParty]map[model.BookingStatus][]model.BookingStatus{
	PartyOwner: {
		model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
		model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
	},
	PartyRenter: {
		model.BookingPending:   {model.BookingCancelled},
		model.BookingConfirmed: {model.BookingCancelled},
	},
}

// CanTransition reports whether party may move a booking from one status to another.
func CanTransition(party BookingParty, from, to model.BookingStatus) bool {
	for _, allowed := range bookingTransitions[party][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// BookingService handles booking requests and their notifications
type BookingService struct {
	store     BookingStore
	publisher Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(store BookingStore, publisher Publisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Create books a listing for renterID. The booking and the owner's
// notification are committed together and then published.
func (s *BookingService) Create(ctx context.Context, renterID string, req model.BookingRequest) (*model.Booking, error) {
	if strings.TrimSpace(req.ListingID) == "" {
		return nil, apperr.BadRequest("listingId is required")
	}
	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return nil, apperr.BadRequest("startDate must be a YYYY-MM-DD date")
	}
	end, err := time.Parse(model.DateLayout, req.EndDate)
	if err != nil {
		return nil, apperr.BadRequest("endDate must be a YYYY-MM-DD date")
	}
	if !end.After(start) {
		return nil, apperr.BadRequest("endDate must be after startDate")
	}

	nb := model.NewBooking{
		ID:        uuid.NewString(),
		ListingID: req.ListingID,
		RenterID:  renterID,
		StartDate: start,
		EndDate:   end,
		Days:      int(end.Sub(start).Hours() / 24),
	}

	booking, notification, err := s.store.CreateBooking(ctx, nb, bookingRequestNotification)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NotFound("listing not found")
	case errors.Is(err, repository.ErrListingUnavailable):
		return nil, apperr.BadRequest("listing is not available")
	case errors.Is(err, repository.ErrSelfBooking):
		return nil, apperr.BadRequest("you cannot book your own listing")
	case err != nil:
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("listing_id", booking.ListingID),
		zap.Int("days", nb.Days))

	s.publisher.Publish(ctx, notification)
	return booking, nil
}

// UpdateStatus applies a status change requested by userID.
func (s *BookingService) UpdateStatus(ctx context.Context, userID, bookingID string, to model.BookingStatus) (*model.Booking, error) {
	apply := func(b *model.Booking) (*model.Notification, error) {
		var party BookingParty
		var recipient string
		switch {
		case b.OwnerID != nil && *b.OwnerID == userID:
			party, recipient = PartyOwner, b.RenterID
		case b.RenterID == userID:
			party = PartyRenter
			if b.OwnerID != nil {
				recipient = *b.OwnerID
			}
		default:
			return nil, apperr.Forbidden("you are not a party to this booking")
		}

		if !CanTransition(party, b.Status, to) {
			return nil, apperr.BadRequest("cannot change booking from %s to %s", b.Status, to)
		}
		from := b.Status
		b.Status = to
		return bookingUpdateNotification(b, from, recipient), nil
	}

	booking, notification, err := s.store.UpdateBookingStatus(ctx, bookingID, apply)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, notification)
	return booking, nil
}

// ListMine returns the bookings userID made
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.store.ListRenterBookings(ctx, userID)
}

// ListIncoming returns bookings on userID's listings
func (s *BookingService) ListIncoming(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.store.ListOwnerBookings(ctx, userID)
}

func bookingRequestNotification(l *model.Listing, b *model.Booking) *model.Notification {
	link := "/bookings/incoming"
	return &model.Notification{
		ID:     uuid.NewString(),
		UserID: l.OwnerID,
		Type:   model.NotificationBookingRequest,
		Title:  "New booking request",
		Body: fmt.Sprintf("%s requested from %s to %s",
			l.Title, b.StartDate.Format(model.DateLayout), b.EndDate.Format(model.DateLayout)),
		Link:      &link,
		CreatedAt: b.CreatedAt,
	}
}

func bookingUpdateNotification(b *model.Booking, from model.BookingStatus, recipient string) *model.Notification {
	title := "the listing"
	if b.ListingTitle != nil {
		title = *b.ListingTitle
	}
	link := "/bookings"
	return &model.Notification{
		ID:        uuid.NewString(),
		UserID:    recipient,
		Type:      model.NotificationBookingUpdate,
		Title:     "Booking " + strings.ToLower(string(b.Status)),
		Body:      fmt.Sprintf("Booking for %s changed from %s to %s", title, from, b.Status),
		Link:      &link,
		CreatedAt: time.Now().UTC(),
	}
}
