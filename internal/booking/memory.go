package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is a mutex-guarded in-memory Repository implementation.
// The single lock trivially gives Create its check-then-insert atomicity and
// UpdateStatus its one-winner guarantee. Used in tests and for local runs
// without a database.
type memoryRepository struct {
	mu       sync.Mutex
	bookings map[string]*Booking
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		bookings: make(map[string]*Booking),
	}
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.bookings {
		if other.ItemID != b.ItemID || other.Status != StatusApproved {
			continue
		}
		if Overlaps(b.Start, b.End, other.Start, other.End) {
			return ErrTimeConflict
		}
	}

	b.ID = uuid.New().String()
	b.CreatedAt = time.Now().UTC()

	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Booking
	for _, b := range r.bookings {
		if filter.BookerID != "" && b.BookerID != filter.BookerID {
			continue
		}
		if filter.OwnerID != "" && b.ItemOwnerID != filter.OwnerID {
			continue
		}
		bucket := filter.Bucket
		if bucket == "" {
			bucket = BucketAll
		}
		if !bucket.Matches(b, filter.Now) {
			continue
		}
		out := *b
		matched = append(matched, &out)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Start.Equal(matched[j].Start) {
			return matched[i].Start.After(matched[j].Start)
		}
		return matched[i].ID < matched[j].ID
	})

	from := filter.From
	if from < 0 {
		from = 0
	}
	size := filter.Size
	if size < 1 {
		size = 20
	}

	if from >= len(matched) {
		return []*Booking{}, nil
	}
	end := from + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[from:end], nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != StatusWaiting {
		return ErrAlreadyDecided
	}
	b.Status = status
	return nil
}

func (r *memoryRepository) LastForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var last *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.End.Before(now) {
			continue
		}
		if last == nil || b.End.After(last.End) || (b.End.Equal(last.End) && b.ID < last.ID) {
			last = b
		}
	}
	if last == nil {
		return nil, nil
	}
	out := *last
	return &out, nil
}

func (r *memoryRepository) NextForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) || (b.Start.Equal(next.Start) && b.ID < next.ID) {
			next = b
		}
	}
	if next == nil {
		return nil, nil
	}
	out := *next
	return &out, nil
}
