package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	HoldingIDKey contextKey = "holding_id"
)

// HoldingIDFromContext extracts the acting holding ID placed in the request
// context by the auth middleware.
func HoldingIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	holdingID, ok := ctx.Value(HoldingIDKey).(uuid.UUID)
	return holdingID, ok
}

// UserIDFromContext extracts the acting user ID from the request context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// statusForKind maps each error kind onto the HTTP status the boundary
// returns for it.
var statusForKind = map[ErrorKind]int{
	KindInvalidBlockType:            http.StatusBadRequest,
	KindContentValidationError:      http.StatusBadRequest,
	KindReorderSetMismatch:          http.StatusBadRequest,
	KindUnsupportedMimeType:         http.StatusBadRequest,
	KindInvalidAssetDescriptor:      http.StatusBadRequest,
	KindBlockNotFound:               http.StatusNotFound,
	KindAssetNotFound:               http.StatusNotFound,
	KindLandingNotFound:             http.StatusNotFound,
	KindBlockNotDeletable:           http.StatusConflict,
	KindDomainAlreadyTaken:          http.StatusConflict,
	KindDomainImmutableAfterPublish: http.StatusConflict,
	KindNothingToPublish:            http.StatusConflict,
	KindStorageUnavailable:          http.StatusServiceUnavailable,
}

// RespondWithError renders a service error as the standardized JSON envelope.
// Unknown errors fall back to a generic 500.
func RespondWithError(c echo.Context, err error) error {
	var de *DomainError
	if errors.As(err, &de) {
		status, ok := statusForKind[de.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, CreateErrorResponse(string(de.Kind), de.Message, de.Details))
	}
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil))
}
