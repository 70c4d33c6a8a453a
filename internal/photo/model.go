package photo

import (
	"net/http"
	"time"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "photo not found")
	ErrNotAnImage       = apperror.New(http.StatusBadRequest, "uploaded file is not an image")
	ErrNoThumbnail      = apperror.New(http.StatusNotFound, "thumbnail not available for this photo")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only the item owner may manage photos")
)

// Photo is an image attached to an item listing.
type Photo struct {
	ID            string
	ItemID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}
