package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"buildsite/internal/caching"
	"buildsite/internal/common"
	"buildsite/internal/models"
	"buildsite/internal/repositories"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// AssetBucket is the object storage bucket holding all landing uploads.
	AssetBucket = "landing-assets"

	presignExpiry = 15 * time.Minute
	// Cached links live shorter than their validity so a cached link always
	// still works when served.
	presignCacheTTL = 10 * time.Minute
)

// RegisterAssetRequest describes an upload that has already completed: the
// bytes are durably stored and the descriptor carries their location. The
// registry records metadata only.
type RegisterAssetRequest struct {
	Filename      string                      `json:"filename"`
	SizeBytes     int64                       `json:"size_bytes"`
	MimeType      string                      `json:"mime_type"`
	UsageContext  models.UsageContext         `json:"usage_context"`
	ObjectKey     string                      `json:"object_key"`
	PublicURL     string                      `json:"public_url"`
	OptimizedURLs map[models.SizeClass]string `json:"optimized_urls,omitempty"`
	Metadata      map[string]string           `json:"metadata,omitempty"`
}

// AssetService is the asset registry: metadata for uploaded media, classified
// by type and usage context.
type AssetService interface {
	List(ctx context.Context, landingID uuid.UUID, filter *models.AssetFilter) ([]*models.Asset, error)
	Register(ctx context.Context, landingID uuid.UUID, req *RegisterAssetRequest) (*models.Asset, error)
	GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error)
	DownloadURL(ctx context.Context, assetID uuid.UUID) (string, error)
	UpdateMetadata(ctx context.Context, assetID uuid.UUID, patch map[string]string) (*models.Asset, error)
	Delete(ctx context.Context, assetID uuid.UUID) (*models.Asset, error)
}

type assetService struct {
	assetRepo  repositories.AssetRepository
	storageSvc StorageService
	cacheSvc   caching.CacheService
}

func NewAssetService(assetRepo repositories.AssetRepository, storageSvc StorageService, cacheSvc caching.CacheService) AssetService {
	return &assetService{
		assetRepo:  assetRepo,
		storageSvc: storageSvc,
		cacheSvc:   cacheSvc,
	}
}

func (s *assetService) List(ctx context.Context, landingID uuid.UUID, filter *models.AssetFilter) ([]*models.Asset, error) {
	assets, err := s.assetRepo.List(ctx, landingID, filter)
	if err != nil {
		return nil, common.StorageError(err)
	}
	return assets, nil
}

func (s *assetService) Register(ctx context.Context, landingID uuid.UUID, req *RegisterAssetRequest) (*models.Asset, error) {
	assetType, ok := models.ClassifyMime(req.MimeType)
	if !ok {
		return nil, common.NewDomainError(common.KindUnsupportedMimeType, "mime type is not accepted for upload").
			WithDetail("mime_type", req.MimeType)
	}

	if req.SizeBytes <= 0 {
		return nil, common.NewDomainError(common.KindInvalidAssetDescriptor, "size must be a positive byte count").
			WithDetail("size_bytes", strconv.FormatInt(req.SizeBytes, 10))
	}

	usage := req.UsageContext
	if usage == "" {
		usage = models.UsageContextGeneral
	}
	if !usage.Valid() {
		usage = models.UsageContextGeneral
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	asset := &models.Asset{
		ID:           uuid.New(),
		LandingID:    landingID,
		Filename:     req.Filename,
		AssetType:    assetType,
		UsageContext: usage,
		SizeBytes:    req.SizeBytes,
		SizeHuman:    humanize.Bytes(uint64(req.SizeBytes)),
		ObjectKey:    req.ObjectKey,
		PublicURL:    req.PublicURL,
		Metadata:     metadata,
	}
	// Optimized variants exist only for images.
	if assetType == models.AssetTypeImage {
		asset.OptimizedURLs = req.OptimizedURLs
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, common.StorageError(err)
	}

	s.invalidateSnapshot(ctx, landingID)
	return asset, nil
}

func (s *assetService) GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	return s.getAsset(ctx, assetID)
}

// DownloadURL returns a time-limited link to the asset's stored object.
func (s *assetService) DownloadURL(ctx context.Context, assetID uuid.UUID) (string, error) {
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return "", err
	}

	cacheKey := presignCacheKey(assetID)
	if url, err := s.cacheSvc.GetString(ctx, cacheKey); err == nil && url != "" {
		return url, nil
	} else if err != nil {
		log.Printf("Download link cache error for asset %s: %v", assetID.String(), err)
	}

	url, err := s.storageSvc.GetPresignedURL(AssetBucket, asset.ObjectKey, presignExpiry)
	if err != nil {
		return "", common.StorageError(err)
	}
	if err := s.cacheSvc.SetString(ctx, cacheKey, url, presignCacheTTL); err != nil {
		log.Printf("Failed to cache download link for asset %s: %v", assetID.String(), err)
	}
	return url, nil
}

func (s *assetService) UpdateMetadata(ctx context.Context, assetID uuid.UUID, patch map[string]string) (*models.Asset, error) {
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(asset.Metadata)+len(patch))
	for k, v := range asset.Metadata {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}

	if err := s.assetRepo.UpdateMetadata(ctx, assetID, merged); err != nil {
		return nil, common.StorageError(err)
	}
	asset.Metadata = merged

	s.invalidateSnapshot(ctx, asset.LandingID)
	return asset, nil
}

// Delete removes the metadata record only. Blocks referencing the asset are
// not touched; the public snapshot degrades those references instead.
func (s *assetService) Delete(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := s.assetRepo.Delete(ctx, assetID); err != nil {
		return nil, common.StorageError(err)
	}

	if err := s.cacheSvc.Delete(ctx, presignCacheKey(assetID)); err != nil {
		log.Printf("Failed to evict download link for asset %s: %v", assetID.String(), err)
	}
	s.invalidateSnapshot(ctx, asset.LandingID)
	return asset, nil
}

func (s *assetService) getAsset(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewDomainError(common.KindAssetNotFound, "asset not found").
				WithDetail("asset_id", assetID.String())
		}
		return nil, common.StorageError(err)
	}
	return asset, nil
}

func presignCacheKey(assetID uuid.UUID) string {
	return "buildsite:presign:" + assetID.String()
}

func (s *assetService) invalidateSnapshot(ctx context.Context, landingID uuid.UUID) {
	if err := s.cacheSvc.DeleteSnapshot(ctx, landingID); err != nil {
		log.Printf("Failed to invalidate snapshot cache for landing %s: %v", landingID.String(), err)
	}
}
