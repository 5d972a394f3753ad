package handlers

import (
	"net/http"

	"buildsite/internal/common"
	"buildsite/internal/models"
	"buildsite/internal/services"

	"github.com/labstack/echo/v4"
)

// LandingHandlers handles landing-level HTTP requests
type LandingHandlers struct {
	landingService services.LandingService
}

// NewLandingHandlers creates a new landing handlers instance
func NewLandingHandlers(landingService services.LandingService) *LandingHandlers {
	return &LandingHandlers{landingService: landingService}
}

// GetLanding returns the holding's landing, creating a draft one on first
// request.
func (h *LandingHandlers) GetLanding(c echo.Context) error {
	holdingID, ok := common.HoldingIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing holding context")
	}

	landing, err := h.landingService.GetOrCreate(c.Request().Context(), holdingID)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, landing)
}

// UpdateSettings merges a settings patch into the holding's landing.
func (h *LandingHandlers) UpdateSettings(c echo.Context) error {
	holdingID, ok := common.HoldingIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing holding context")
	}

	var patch models.LandingSettingsPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	landing, err := h.landingService.GetOrCreate(c.Request().Context(), holdingID)
	if err != nil {
		return common.RespondWithError(c, err)
	}

	updated, err := h.landingService.UpdateSettings(c.Request().Context(), landing.ID, &patch)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// PublishLanding transitions the holding's landing from draft to published.
func (h *LandingHandlers) PublishLanding(c echo.Context) error {
	holdingID, ok := common.HoldingIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing holding context")
	}

	landing, err := h.landingService.GetOrCreate(c.Request().Context(), holdingID)
	if err != nil {
		return common.RespondWithError(c, err)
	}

	published, err := h.landingService.Publish(c.Request().Context(), landing.ID)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, published)
}

// PreviewSnapshot returns the public projection of the holding's own landing,
// for staff preview.
func (h *LandingHandlers) PreviewSnapshot(c echo.Context) error {
	holdingID, ok := common.HoldingIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing holding context")
	}

	landing, err := h.landingService.GetOrCreate(c.Request().Context(), holdingID)
	if err != nil {
		return common.RespondWithError(c, err)
	}

	snapshot, err := h.landingService.GetPublicSnapshot(c.Request().Context(), landing.ID)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// PublicSnapshot serves the publicly renderable projection of a landing by
// its domain. This route carries no auth; it never exposes draft or inactive
// blocks.
func (h *LandingHandlers) PublicSnapshot(c echo.Context) error {
	domain := c.Param("domain")
	if domain == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Domain is required")
	}

	snapshot, err := h.landingService.GetPublicSnapshotByDomain(c.Request().Context(), domain)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}
