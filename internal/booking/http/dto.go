package http

import (
	"time"

	"gearshare/internal/booking"
	itemHttp "gearshare/internal/item/http"
	"gearshare/internal/pkg/request"
	userHttp "gearshare/internal/user/http"
)

// CreateBookingBody is the payload for POST /v1/bookings.
type CreateBookingBody struct {
	ItemID    string    `json:"item_id" binding:"required,uuid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// ListBookingsQuery defines query parameters for the booking list endpoints.
type ListBookingsQuery struct {
	request.ListParams
	State string `form:"state"`
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Item      itemHttp.ItemTag `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		StartTime: b.Start,
		EndTime:   b.End,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

// NewBookingListResponse converts a slice of bookings, keeping empty slices
// instead of nil so JSON renders [] rather than null.
func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
