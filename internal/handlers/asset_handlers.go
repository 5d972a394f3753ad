package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"buildsite/internal/common"
	"buildsite/internal/models"
	"buildsite/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// Upload byte limits are a caller responsibility: the registry records
	// whatever size it is told, so they are enforced here, before Register.
	maxAssetSizeBytes  = 5 * 1024 * 1024
	maxAvatarSizeBytes = 2 * 1024 * 1024
)

// AssetHandlers handles asset-related HTTP requests
type AssetHandlers struct {
	assetService   services.AssetService
	landingService services.LandingService
	storageService services.StorageService
}

// NewAssetHandlers creates a new asset handlers instance
func NewAssetHandlers(assetService services.AssetService, landingService services.LandingService, storageService services.StorageService) *AssetHandlers {
	return &AssetHandlers{
		assetService:   assetService,
		landingService: landingService,
		storageService: storageService,
	}
}

func (h *AssetHandlers) holdingLanding(c echo.Context) (*models.Landing, error) {
	holdingID, ok := common.HoldingIDFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing holding context")
	}
	return h.landingService.GetOrCreate(c.Request().Context(), holdingID)
}

func (h *AssetHandlers) ownedAsset(c echo.Context) (*models.Asset, error) {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return nil, err
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid asset ID")
	}

	asset, err := h.assetService.GetByID(c.Request().Context(), assetID)
	if err != nil {
		return nil, err
	}
	if asset.LandingID != landing.ID {
		return nil, common.NewDomainError(common.KindAssetNotFound, "asset not found").
			WithDetail("asset_id", assetID.String())
	}
	return asset, nil
}

// ListAssetsRequest represents query parameters for listing assets
type ListAssetsRequest struct {
	Type         string `query:"type"`
	UsageContext string `query:"usage_context"`
	Filename     string `query:"filename"`
}

// ListAssets returns the landing's assets, optionally filtered.
func (h *AssetHandlers) ListAssets(c echo.Context) error {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return respond(c, err)
	}

	var req ListAssetsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	filter := &models.AssetFilter{Filename: req.Filename}
	if req.Type != "" {
		assetType := models.AssetType(req.Type)
		filter.AssetType = &assetType
	}
	if req.UsageContext != "" {
		usage := models.UsageContext(req.UsageContext)
		filter.UsageContext = &usage
	}

	assets, err := h.assetService.List(c.Request().Context(), landing.ID, filter)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"assets": assets,
	})
}

// UploadAsset transfers the file into object storage and registers its
// metadata. The registry itself never sees the bytes.
func (h *AssetHandlers) UploadAsset(c echo.Context) error {
	landing, err := h.holdingLanding(c)
	if err != nil {
		return respond(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is required")
	}

	usage := models.UsageContext(c.FormValue("usage_context"))
	if usage == "" {
		usage = models.UsageContextGeneral
	}
	if !usage.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid usage context")
	}

	limit := int64(maxAssetSizeBytes)
	if usage == models.UsageContextLogo || usage == models.UsageContextFavicon {
		limit = maxAvatarSizeBytes
	}
	if fileHeader.Size > limit {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d byte limit", limit))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read file")
	}
	defer src.Close()

	// Small enough to buffer (the byte limits above); the bytes are written
	// once per stored object.
	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	objectKey := fmt.Sprintf("%s/%s%s", landing.ID.String(), uuid.New().String(), filepath.Ext(fileHeader.Filename))

	ctx := c.Request().Context()
	if err := h.storageService.EnsureBucketExists(ctx, services.AssetBucket); err != nil {
		return common.RespondWithError(c, common.StorageError(err))
	}
	if err := h.storageService.Upload(ctx, services.AssetBucket, objectKey, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return common.RespondWithError(c, common.StorageError(err))
	}
	stored := []string{objectKey}

	// Images additionally get one object per size class.
	// TODO: downscale each variant once an image processing pipeline exists;
	// until then every variant serves the original bytes.
	var optimized map[models.SizeClass]string
	if assetType, ok := models.ClassifyMime(contentType); ok && assetType == models.AssetTypeImage {
		optimized = make(map[models.SizeClass]string, len(models.SizeClasses))
		for _, size := range models.SizeClasses {
			variantKey := services.VariantObjectKey(objectKey, string(size))
			if err := h.storageService.Upload(ctx, services.AssetBucket, variantKey, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
				cleanupObjects(ctx, h.storageService, stored)
				return common.RespondWithError(c, common.StorageError(err))
			}
			stored = append(stored, variantKey)
			optimized[size] = h.storageService.PublicURL(services.AssetBucket, variantKey)
		}
	}

	metadata := map[string]string{}
	for _, field := range []string{"alt_text", "caption", "description"} {
		if v := c.FormValue(field); v != "" {
			metadata[field] = v
		}
	}

	asset, err := h.assetService.Register(ctx, landing.ID, &services.RegisterAssetRequest{
		Filename:      fileHeader.Filename,
		SizeBytes:     fileHeader.Size,
		MimeType:      contentType,
		UsageContext:  usage,
		ObjectKey:     objectKey,
		PublicURL:     h.storageService.PublicURL(services.AssetBucket, objectKey),
		OptimizedURLs: optimized,
		Metadata:      metadata,
	})
	if err != nil {
		// The bytes are already stored; remove them so a rejected upload
		// leaves nothing behind.
		cleanupObjects(ctx, h.storageService, stored)
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusCreated, asset)
}

func cleanupObjects(ctx context.Context, storage services.StorageService, objectKeys []string) {
	for _, key := range objectKeys {
		if err := storage.Delete(ctx, services.AssetBucket, key); err != nil {
			log.Printf("Failed to delete object %s: %v", key, err)
		}
	}
}

// DownloadAsset returns a time-limited link to the asset's stored object.
func (h *AssetHandlers) DownloadAsset(c echo.Context) error {
	asset, err := h.ownedAsset(c)
	if err != nil {
		return respond(c, err)
	}

	url, err := h.assetService.DownloadURL(c.Request().Context(), asset.ID)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// UpdateAssetMetadata merges a metadata patch (alt text, caption,
// description) into the asset record.
func (h *AssetHandlers) UpdateAssetMetadata(c echo.Context) error {
	asset, err := h.ownedAsset(c)
	if err != nil {
		return respond(c, err)
	}

	var patch map[string]string
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	updated, err := h.assetService.UpdateMetadata(c.Request().Context(), asset.ID, patch)
	if err != nil {
		return common.RespondWithError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAsset removes the metadata record and, best effort, the stored
// object. Blocks referencing the asset are left alone; the public snapshot
// degrades those references.
func (h *AssetHandlers) DeleteAsset(c echo.Context) error {
	asset, err := h.ownedAsset(c)
	if err != nil {
		return respond(c, err)
	}

	deleted, err := h.assetService.Delete(c.Request().Context(), asset.ID)
	if err != nil {
		return common.RespondWithError(c, err)
	}

	if deleted.ObjectKey != "" {
		keys := []string{deleted.ObjectKey}
		if deleted.AssetType == models.AssetTypeImage {
			for _, size := range models.SizeClasses {
				keys = append(keys, services.VariantObjectKey(deleted.ObjectKey, string(size)))
			}
		}
		cleanupObjects(c.Request().Context(), h.storageService, keys)
	}
	return c.NoContent(http.StatusNoContent)
}
