package middleware

import (
	"context"
	"net/http"

	"buildsite/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTCustomClaims are the claims issued by the (external) auth service. The
// engine only needs to know who is acting and for which holding; whether the
// principal may act is decided before the request reaches us.
type JWTCustomClaims struct {
	UserID    string `json:"user_id"`
	HoldingID string `json:"holding_id"`
	jwt.RegisteredClaims
}

// ParseJWTPayload validates the custom claims and stores the acting user and
// holding identifiers in the request context.
func ParseJWTPayload(c echo.Context, claims *JWTCustomClaims) error {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id in token")
	}
	holdingID, err := uuid.Parse(claims.HoldingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid holding_id in token")
	}

	ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
	ctx = context.WithValue(ctx, common.HoldingIDKey, holdingID)
	c.SetRequest(c.Request().WithContext(ctx))

	return nil
}
