package booking

import (
	"net/http"
	"strings"
	"time"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrItemNotFound     = apperror.New(http.StatusNotFound, "item not found")
	ErrItemUnavailable  = apperror.New(http.StatusBadRequest, "item not available")
	ErrOwnItem          = apperror.New(http.StatusForbidden, "owner cannot book own item")
	ErrTimeRequired     = apperror.New(http.StatusBadRequest, "start and end times are required")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "start time cannot be in the past")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "item already booked for this period")
	ErrAlreadyDecided   = apperror.New(http.StatusBadRequest, "booking already decided")
	ErrNotItemOwner     = apperror.New(http.StatusForbidden, "only item owner may decide")
	ErrAccessDenied     = apperror.New(http.StatusForbidden, "access denied to booking")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking is a time-bounded reservation of an item, pending the owner's decision.
// ItemName, ItemOwnerID and BookerName are read-model fields joined from the
// item catalog and user directory; the core identity fields never change after
// creation, and Status changes exactly once.
type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Start       time.Time
	End         time.Time
	Status      Status
	CreatedAt   time.Time
}

// Summary is the minimal projection exposed when an item owner views the
// last/next booking attached to an item.
type Summary struct {
	ID       string
	BookerID string
}

// Bucket names a temporal/status filter applied when listing bookings.
type Bucket string

const (
	BucketAll      Bucket = "ALL"
	BucketCurrent  Bucket = "CURRENT"
	BucketPast     Bucket = "PAST"
	BucketFuture   Bucket = "FUTURE"
	BucketWaiting  Bucket = "WAITING"
	BucketRejected Bucket = "REJECTED"
)

// ParseBucket parses a bucket name case-insensitively. An empty string means ALL.
func ParseBucket(s string) (Bucket, error) {
	if s == "" {
		return BucketAll, nil
	}
	switch b := Bucket(strings.ToUpper(s)); b {
	case BucketAll, BucketCurrent, BucketPast, BucketFuture, BucketWaiting, BucketRejected:
		return b, nil
	default:
		return "", apperror.New(http.StatusBadRequest, "unknown state: "+s)
	}
}

// Matches reports whether the booking falls into the bucket at the given time.
func (bk Bucket) Matches(b *Booking, now time.Time) bool {
	switch bk {
	case BucketAll:
		return true
	case BucketCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case BucketPast:
		return b.End.Before(now)
	case BucketFuture:
		return b.Start.After(now)
	case BucketWaiting:
		return b.Status == StatusWaiting
	case BucketRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2) share any instant.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Filter defines parameters for listing bookings.
// Exactly one of BookerID/OwnerID is expected to be set.
type Filter struct {
	BookerID string
	OwnerID  string
	Bucket   Bucket
	Now      time.Time
	From     int
	Size     int
}
