package handlers

import (
	"net/http"

	"buildsite/internal/common"
	"buildsite/internal/models"
	"buildsite/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BlockHandlers handles block-related HTTP requests
type BlockHandlers struct {
	blockService   services.BlockService
	landingService services.LandingService
}

// NewBlockHandlers creates a new block handlers instance
func NewBlockHandlers(blockService services.BlockService, landingService services.LandingService) *BlockHandlers {
	return &BlockHandlers{
		blockService:   blockService,
		landingService: landingService,
	}
}

// holdingLanding resolves the acting holding's landing from the request
// context.
func (h *BlockHandlers) holdingLanding(c echo.Context) (*models.Landing, error) {
	holdingID, ok := common.HoldingIDFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing holding context")
	}
	return h.landingService.GetOrCreate(c.Request().Context(), holdingID)
}

// ownedBlock loads a block and verifies it belongs to the acting holding's
// landing.
func (h *BlockHandlers) ownedBlock(c echo.Context) (*models.Block, error) {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return nil, err
	}

	blockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid block ID")
	}

	block, err := h.blockService.Get(c.Request().Context(), blockID)
	if err != nil {
		return nil, err
	}
	if block.LandingID != landing.ID {
		return nil, common.NewDomainError(common.KindBlockNotFound, "block not found").
			WithDetail("block_id", blockID.String())
	}
	return block, nil
}

// ListBlocksRequest represents query parameters for listing blocks
type ListBlocksRequest struct {
	Status string `query:"status"`
	Type   string `query:"type"`
	Active *bool  `query:"active"`
}

// ListBlocks returns the landing's blocks in render order.
func (h *BlockHandlers) ListBlocks(c echo.Context) error {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return respond(c, err)
	}

	var req ListBlocksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	filter := &models.BlockFilter{Active: req.Active}
	if req.Status != "" {
		status := models.BlockStatus(req.Status)
		filter.Status = &status
	}
	if req.Type != "" {
		blockType := models.BlockType(req.Type)
		filter.Type = &blockType
	}

	blocks, err := h.blockService.List(c.Request().Context(), landing.ID, filter)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"blocks": blocks,
	})
}

// CreateBlockRequest represents the block creation request payload
type CreateBlockRequest struct {
	Type  string  `json:"type"`
	Title *string `json:"title,omitempty"`
}

// CreateBlock adds a block of the given type, seeded from its default
// template, at the end of the landing.
func (h *BlockHandlers) CreateBlock(c echo.Context) error {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return respond(c, err)
	}

	var req CreateBlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Block type is required")
	}

	block, err := h.blockService.Create(c.Request().Context(), landing.ID, models.BlockType(req.Type), req.Title)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, block)
}

// UpdateBlockContent shallow-merges a content patch into the block.
func (h *BlockHandlers) UpdateBlockContent(c echo.Context) error {
	block, err := h.ownedBlock(c)
	if err != nil {
		return respond(c, err)
	}

	var patch models.BlockContent
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	updated, err := h.blockService.UpdateContent(c.Request().Context(), block.ID, patch)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateBlockSettings replaces the block's display settings.
func (h *BlockHandlers) UpdateBlockSettings(c echo.Context) error {
	block, err := h.ownedBlock(c)
	if err != nil {
		return respond(c, err)
	}

	var settings models.BlockSettings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	updated, err := h.blockService.UpdateSettings(c.Request().Context(), block.ID, settings)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// SetActiveRequest represents the visibility toggle payload
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetBlockActive toggles public visibility without touching publish status.
func (h *BlockHandlers) SetBlockActive(c echo.Context) error {
	block, err := h.ownedBlock(c)
	if err != nil {
		return respond(c, err)
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	updated, err := h.blockService.SetActive(c.Request().Context(), block.ID, req.IsActive)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// PublishBlock transitions the block from draft to published.
func (h *BlockHandlers) PublishBlock(c echo.Context) error {
	block, err := h.ownedBlock(c)
	if err != nil {
		return respond(c, err)
	}

	published, err := h.blockService.Publish(c.Request().Context(), block.ID)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, published)
}

// DuplicateBlock copies the block to the end of the landing as a draft.
func (h *BlockHandlers) DuplicateBlock(c echo.Context) error {
	block, err := h.ownedBlock(c)
	if err != nil {
		return respond(c, err)
	}

	duplicate, err := h.blockService.Duplicate(c.Request().Context(), block.ID)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, duplicate)
}

// DeleteBlock removes the block and compacts the remaining positions.
func (h *BlockHandlers) DeleteBlock(c echo.Context) error {
	block, err := h.ownedBlock(c)
	if err != nil {
		return respond(c, err)
	}

	if err := h.blockService.Delete(c.Request().Context(), block.ID); err != nil {
		return common.RespondWithError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReorderBlocksRequest represents the desired new ordering
type ReorderBlocksRequest struct {
	BlockIDs []uuid.UUID `json:"block_ids"`
}

// ReorderBlocks applies a client-proposed permutation of the landing's
// blocks.
func (h *BlockHandlers) ReorderBlocks(c echo.Context) error {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return respond(c, err)
	}

	var req ReorderBlocksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	blocks, err := h.blockService.Reorder(c.Request().Context(), landing.ID, req.BlockIDs)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"blocks": blocks,
	})
}

// BlockTemplates exposes the default content template mapping so creators can
// seed new blocks without type-specific knowledge.
func (h *BlockHandlers) BlockTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": h.blockService.DefaultTemplates(),
	})
}

// respond renders either an echo HTTP error or a service error.
func respond(c echo.Context, err error) error {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr
	}
	return common.RespondWithError(c, err)
}
