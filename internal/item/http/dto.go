package http

import (
	"time"

	"gearshare/internal/booking"
	"gearshare/internal/item"
	"gearshare/internal/pkg/request"
)

// ItemTag is the minimal item projection embedded in other responses.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateItemBody is the payload for POST /v1/items.
type CreateItemBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

// UpdateItemBody is the payload for PATCH /v1/items/:id.
type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// SearchItemsQuery defines query parameters for GET /v1/items/search.
type SearchItemsQuery struct {
	request.ListParams
	Text string `form:"text"`
}

// ListItemsQuery defines query parameters for GET /v1/items.
type ListItemsQuery struct {
	request.ListParams
}

// BookingSummary is the last/next booking projection shown to the item owner.
type BookingSummary struct {
	ID       string `json:"id"`
	BookerID string `json:"booker_id"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`

	// Only populated when the requester owns the item.
	LastBooking *BookingSummary `json:"last_booking,omitempty"`
	NextBooking *BookingSummary `json:"next_booking,omitempty"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		OwnerName:   it.OwnerName,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		CreatedAt:   it.CreatedAt,
	}
}

func newBookingSummary(s *booking.Summary) *BookingSummary {
	if s == nil {
		return nil
	}
	return &BookingSummary{ID: s.ID, BookerID: s.BookerID}
}
