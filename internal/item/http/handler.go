package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gearshare/internal/auth"
	"gearshare/internal/booking"
	"gearshare/internal/item"
	"gearshare/internal/pkg/request"
	"gearshare/internal/pkg/response"
)

type Handler struct {
	service        item.Service
	bookingService booking.Service
}

func NewHandler(service item.Service, bookingService booking.Service) *Handler {
	return &Handler{
		service:        service,
		bookingService: bookingService,
	}
}

// attachSummaries enriches an item response with the last/next approved
// booking, which only the owner gets to see.
func (h *Handler) attachSummaries(c *gin.Context, resp *ItemResponse) {
	last, next, err := h.bookingService.SummarizeItem(c.Request.Context(), resp.ID, time.Now().UTC())
	if err != nil {
		// The item itself is still useful without the summaries.
		return
	}
	resp.LastBooking = newBookingSummary(last)
	resp.NextBooking = newBookingSummary(next)
}

// Create handles POST /v1/items. The authenticated user becomes the owner.
func (h *Handler) Create(c *gin.Context) {
	var body CreateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := item.CreateRequest{
		OwnerID:     userID,
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
	}

	it, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

// Get handles GET /v1/items/:id. Owners additionally see last/next booking.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := NewItemResponse(it)
	if auth.GetUserID(c) == it.OwnerID {
		h.attachSummaries(c, &resp)
	}

	c.JSON(http.StatusOK, resp)
}

// Update handles PATCH /v1/items/:id, owner only.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	req := item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	}

	it, err := h.service.Update(c.Request.Context(), uri.ID, req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

// ListMine handles GET /v1/items: the authenticated owner's items, each with
// last/next booking summaries.
func (h *Handler) ListMine(c *gin.Context) {
	var query ListItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	items, total, err := h.service.ListByOwner(c.Request.Context(), userID, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	results := make([]ItemResponse, len(items))
	for i, it := range items {
		results[i] = NewItemResponse(it)
		h.attachSummaries(c, &results[i])
	}

	c.JSON(http.StatusOK, response.NewPageResponse(results, query.From, query.Size, total))
}

// Search handles GET /v1/items/search?text=. Only available items match; a
// blank query returns an empty page.
func (h *Handler) Search(c *gin.Context) {
	var query SearchItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	items, total, err := h.service.Search(c.Request.Context(), query.Text, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	results := make([]ItemResponse, len(items))
	for i, it := range items {
		results[i] = NewItemResponse(it)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(results, query.From, query.Size, total))
}
