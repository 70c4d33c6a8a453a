package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare/internal/booking"
)

func TestParseBucket(t *testing.T) {
	t.Run("Known Buckets", func(t *testing.T) {
		for _, name := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
			b, err := booking.ParseBucket(name)
			require.NoError(t, err, name)
			assert.Equal(t, booking.Bucket(name), b)
		}
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		b, err := booking.ParseBucket("current")
		require.NoError(t, err)
		assert.Equal(t, booking.BucketCurrent, b)
	})

	t.Run("Empty Means All", func(t *testing.T) {
		b, err := booking.ParseBucket("")
		require.NoError(t, err)
		assert.Equal(t, booking.BucketAll, b)
	})

	t.Run("Unknown Rejected", func(t *testing.T) {
		_, err := booking.ParseBucket("SOON")
		assert.Error(t, err)
	})
}

func TestBucketMatches(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	mk := func(start, end time.Time, status booking.Status) *booking.Booking {
		return &booking.Booking{Start: start, End: end, Status: status}
	}

	past := mk(now.Add(-2*time.Hour), now.Add(-time.Hour), booking.StatusApproved)
	current := mk(now.Add(-time.Hour), now.Add(time.Hour), booking.StatusApproved)
	future := mk(now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

	t.Run("Temporal Buckets", func(t *testing.T) {
		assert.True(t, booking.BucketPast.Matches(past, now))
		assert.False(t, booking.BucketPast.Matches(current, now))

		assert.True(t, booking.BucketCurrent.Matches(current, now))
		assert.False(t, booking.BucketCurrent.Matches(past, now))
		assert.False(t, booking.BucketCurrent.Matches(future, now))

		assert.True(t, booking.BucketFuture.Matches(future, now))
		assert.False(t, booking.BucketFuture.Matches(current, now))
	})

	t.Run("Boundaries Count As Current", func(t *testing.T) {
		startingNow := mk(now, now.Add(time.Hour), booking.StatusApproved)
		endingNow := mk(now.Add(-time.Hour), now, booking.StatusApproved)

		assert.True(t, booking.BucketCurrent.Matches(startingNow, now))
		assert.True(t, booking.BucketCurrent.Matches(endingNow, now))
		assert.False(t, booking.BucketPast.Matches(endingNow, now))
		assert.False(t, booking.BucketFuture.Matches(startingNow, now))
	})

	t.Run("Status Buckets", func(t *testing.T) {
		assert.True(t, booking.BucketWaiting.Matches(future, now))
		assert.False(t, booking.BucketWaiting.Matches(current, now))

		rejected := mk(now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusRejected)
		assert.True(t, booking.BucketRejected.Matches(rejected, now))
		assert.False(t, booking.BucketRejected.Matches(future, now))
	})

	t.Run("All Matches Everything", func(t *testing.T) {
		for _, b := range []*booking.Booking{past, current, future} {
			assert.True(t, booking.BucketAll.Matches(b, now))
		}
	})
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	t.Run("Partial Overlap", func(t *testing.T) {
		assert.True(t, booking.Overlaps(at(0), at(2), at(1), at(3)))
		assert.True(t, booking.Overlaps(at(1), at(3), at(0), at(2)))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.True(t, booking.Overlaps(at(0), at(4), at(1), at(2)))
		assert.True(t, booking.Overlaps(at(1), at(2), at(0), at(4)))
	})

	t.Run("Identical Intervals", func(t *testing.T) {
		assert.True(t, booking.Overlaps(at(0), at(2), at(0), at(2)))
	})

	t.Run("Touching Endpoints Do Not Overlap", func(t *testing.T) {
		assert.False(t, booking.Overlaps(at(0), at(2), at(2), at(4)))
		assert.False(t, booking.Overlaps(at(2), at(4), at(0), at(2)))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.False(t, booking.Overlaps(at(0), at(1), at(2), at(3)))
	})
}
