package booking

import (
	"context"
	"time"

	"gearshare/internal/item"
	"gearshare/internal/user"
)

type CreateRequest struct {
	ItemID   string
	BookerID string
	Start    time.Time
	End      time.Time
}

type Service interface {
	// Create validates the request against the user directory, the item
	// catalog and the conflict rules, and persists a WAITING booking.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	// Decide transitions a WAITING booking to APPROVED or REJECTED.
	// Only the item owner may decide, and only once.
	Decide(ctx context.Context, bookingID, actingUserID string, approve bool) (*Booking, error)

	// GetByID returns the booking if the requester is its booker or the item owner.
	GetByID(ctx context.Context, bookingID, requestingUserID string) (*Booking, error)

	// ListByBooker returns the user's own bookings filtered by state bucket,
	// ordered by start time descending.
	ListByBooker(ctx context.Context, bookerID, state string, from, size int) ([]*Booking, error)

	// ListByOwner returns bookings of all items the user owns, filtered and
	// ordered the same way.
	ListByOwner(ctx context.Context, ownerID, state string, from, size int) ([]*Booking, error)

	// SummarizeItem derives the last and next approved booking around now for
	// an item view. Either result may be nil.
	SummarizeItem(ctx context.Context, itemID string, now time.Time) (last, next *Summary, err error)
}

type service struct {
	repo        Repository
	userService user.Service
	itemService item.Service
}

func NewService(repo Repository, userService user.Service, itemService item.Service) Service {
	return &service{
		repo:        repo,
		userService: userService,
		itemService: itemService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// Validation order matters here: existence first, then availability and
	// ownership, then the time rules, and the conflict check last.
	booker, err := s.userService.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	it, err := s.itemService.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !it.Available {
		return nil, ErrItemUnavailable
	}

	if it.OwnerID == req.BookerID {
		return nil, ErrOwnItem
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return nil, ErrTimeRequired
	}
	if !req.End.After(req.Start) {
		return nil, ErrInvalidTimeRange
	}

	// A booking starting exactly now is accepted; only strictly past starts are rejected.
	if req.Start.Before(time.Now().UTC()) {
		return nil, ErrStartTimePast
	}

	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Start:       req.Start,
		End:         req.End,
		Status:      StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *service) Decide(ctx context.Context, bookingID, actingUserID string, approve bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.ItemOwnerID != actingUserID {
		return nil, ErrNotItemOwner
	}

	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	newStatus := StatusRejected
	if approve {
		newStatus = StatusApproved
	}

	// The repository re-checks the WAITING guard atomically, so a concurrent
	// decision loses here rather than overwriting the winner.
	if err := s.repo.UpdateStatus(ctx, b.ID, newStatus); err != nil {
		return nil, err
	}

	b.Status = newStatus
	return b, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, requestingUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if requestingUserID != b.BookerID && requestingUserID != b.ItemOwnerID {
		return nil, ErrAccessDenied
	}

	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, Filter{BookerID: bookerID}, bookerID, state, from, size)
}

func (s *service) ListByOwner(ctx context.Context, ownerID, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, Filter{OwnerID: ownerID}, ownerID, state, from, size)
}

func (s *service) list(ctx context.Context, filter Filter, actorID, state string, from, size int) ([]*Booking, error) {
	exists, err := s.userService.Exists(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}

	bucket, err := ParseBucket(state)
	if err != nil {
		return nil, err
	}

	filter.Bucket = bucket
	filter.Now = time.Now().UTC()
	filter.From = from
	filter.Size = size

	return s.repo.List(ctx, filter)
}

func (s *service) SummarizeItem(ctx context.Context, itemID string, now time.Time) (*Summary, *Summary, error) {
	lastBooking, err := s.repo.LastForItem(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	nextBooking, err := s.repo.NextForItem(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}

	var last, next *Summary
	if lastBooking != nil {
		last = &Summary{ID: lastBooking.ID, BookerID: lastBooking.BookerID}
	}
	if nextBooking != nil {
		next = &Summary{ID: nextBooking.ID, BookerID: nextBooking.BookerID}
	}
	return last, next, nil
}
