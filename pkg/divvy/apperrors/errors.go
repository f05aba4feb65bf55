// Package apperrors defines the business-rule error kinds surfaced by the
// join and share-link flows. Each kind carries a stable machine-readable code
// and its HTTP status; handlers map errors at the edge with Respond.
package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is a business-rule rejection with a stable code
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrNotFound means a token or record did not resolve
	ErrNotFound = &Error{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	// ErrLinkExpired means the share link resolved but is past its expiry
	ErrLinkExpired = &Error{Code: "LINK_EXPIRED", Message: "This invite link has expired", Status: http.StatusGone}
	// ErrInvalidExpiration means a custom expiry was in the past or beyond the lookahead window
	ErrInvalidExpiration = &Error{Code: "INVALID_EXPIRATION", Message: "Expiration must be in the future and within the allowed window", Status: http.StatusBadRequest}
	// ErrGroupAtCapacity is the normal rejection when a group is full
	ErrGroupAtCapacity = &Error{Code: "GROUP_AT_CAPACITY", Message: "This group is full", Status: http.StatusConflict}
	// ErrGroupTooLarge signals a stored member count already over the limit.
	// This is an invariant breach, not user-facing backpressure, and is kept
	// distinct from GROUP_AT_CAPACITY so the two are separable in logs.
	ErrGroupTooLarge = &Error{Code: "GROUP_TOO_LARGE", Message: "Group membership exceeds the allowed maximum", Status: http.StatusInternalServerError}
	// ErrDisplayNameConflict means the chosen name matches an active member's, ignoring case
	ErrDisplayNameConflict = &Error{Code: "DISPLAY_NAME_CONFLICT", Message: "That name is already taken in this group", Status: http.StatusConflict}
)

// WithMessage returns a copy of e carrying a more specific message
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Status: e.Status}
}

// Is makes errors.Is match any copy produced by WithMessage
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Respond writes err as a JSON error response. Business-rule errors keep
// their code and status; anything else becomes a generic 500.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
