package item

import (
	"net/http"
	"time"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "item not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrEmptyDescription = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only the item owner may edit the item")
)

// Item represents a rentable unit listed by its owner (e.g., a drill, a tent).
// Available controls whether new bookings may be created for it.
type Item struct {
	ID          string
	OwnerID     string
	OwnerName   string
	Name        string
	Description string
	Available   bool
	CreatedAt   time.Time
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID string
	Text    string // Search query matched against name and description
	From    int
	Size    int
}
