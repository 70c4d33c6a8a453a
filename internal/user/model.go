package user

import (
	"net/http"
	"time"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "name is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
)

// User represents a registered marketplace user.
// A user may both list items as an owner and book other users' items.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}
