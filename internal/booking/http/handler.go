package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gearshare/internal/auth"
	"gearshare/internal/booking"
	"gearshare/internal/pkg/request"
	"gearshare/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/bookings. The authenticated user is the booker.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := booking.CreateRequest{
		ItemID:   body.ItemID,
		BookerID: userID,
		Start:    body.StartTime,
		End:      body.EndTime,
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Decide handles PATCH /v1/bookings/:id?approved=true|false.
// Only the owner of the booked item may approve or reject, exactly once.
func (h *Handler) Decide(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved query parameter must be true or false"})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.Decide(c.Request.Context(), uri.ID, userID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Get handles GET /v1/bookings/:id for the booker or the item owner.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.GetByID(c.Request.Context(), uri.ID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListMine handles GET /v1/bookings?state=&from=&size= for the authenticated booker.
func (h *Handler) ListMine(c *gin.Context) {
	var query ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	bookings, err := h.service.ListByBooker(c.Request.Context(), userID, query.State, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}

// ListOwned handles GET /v1/bookings/owner?state=&from=&size=, listing
// bookings for all items the authenticated user owns.
func (h *Handler) ListOwned(c *gin.Context) {
	var query ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	bookings, err := h.service.ListByOwner(c.Request.Context(), userID, query.State, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}
