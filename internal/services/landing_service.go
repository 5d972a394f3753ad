package services

import (
	"context"
	"errors"
	"log"
	"time"

	"buildsite/internal/caching"
	"buildsite/internal/common"
	"buildsite/internal/models"
	"buildsite/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	snapshotCacheTTL = 5 * time.Minute
	domainCacheTTL   = 30 * time.Minute
	defaultTemplate  = "classic"
)

// LandingService is the facade over a holding's landing: landing-level
// metadata, the publish lifecycle spanning blocks, and the public read path.
type LandingService interface {
	GetOrCreate(ctx context.Context, holdingID uuid.UUID) (*models.Landing, error)
	UpdateSettings(ctx context.Context, landingID uuid.UUID, patch *models.LandingSettingsPatch) (*models.Landing, error)
	Publish(ctx context.Context, landingID uuid.UUID) (*models.Landing, error)
	GetPublicSnapshot(ctx context.Context, landingID uuid.UUID) (*models.PublicSnapshot, error)
	GetPublicSnapshotByDomain(ctx context.Context, domain string) (*models.PublicSnapshot, error)
}

type landingService struct {
	landingRepo repositories.LandingRepository
	blockRepo   repositories.BlockRepository
	assetRepo   repositories.AssetRepository
	cacheSvc    caching.CacheService
}

func NewLandingService(landingRepo repositories.LandingRepository, blockRepo repositories.BlockRepository, assetRepo repositories.AssetRepository, cacheSvc caching.CacheService) LandingService {
	return &landingService{
		landingRepo: landingRepo,
		blockRepo:   blockRepo,
		assetRepo:   assetRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *landingService) GetOrCreate(ctx context.Context, holdingID uuid.UUID) (*models.Landing, error) {
	landing, err := s.landingRepo.GetByHolding(ctx, holdingID)
	if err == nil {
		return landing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, common.StorageError(err)
	}

	landing = &models.Landing{
		ID:        uuid.New(),
		HoldingID: holdingID,
		Template:  defaultTemplate,
		Status:    models.LandingStatusDraft,
	}
	if err := s.landingRepo.Create(ctx, landing); err != nil {
		return nil, common.StorageError(err)
	}
	return landing, nil
}

func (s *landingService) UpdateSettings(ctx context.Context, landingID uuid.UUID, patch *models.LandingSettingsPatch) (*models.Landing, error) {
	landing, err := s.getLanding(ctx, landingID)
	if err != nil {
		return nil, err
	}

	oldDomain := landing.Domain
	if patch.Domain != nil && *patch.Domain != landing.Domain {
		if landing.IsPublished() {
			return nil, common.NewDomainError(common.KindDomainImmutableAfterPublish, "domain cannot be changed after the landing is published").
				WithDetail("landing_id", landingID.String()).
				WithDetail("domain", landing.Domain)
		}
		// Advisory fast path; the unique index on landings.domain is the
		// authority and its violation is mapped below.
		other, err := s.landingRepo.GetByDomain(ctx, *patch.Domain)
		if err == nil && other.ID != landing.ID {
			return nil, common.NewDomainError(common.KindDomainAlreadyTaken, "domain is already in use by another landing").
				WithDetail("domain", *patch.Domain)
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, common.StorageError(err)
		}
		landing.Domain = *patch.Domain
	}

	if patch.Title != nil {
		landing.Title = *patch.Title
	}
	if patch.Description != nil {
		landing.Description = *patch.Description
	}
	if patch.Template != nil {
		landing.Template = *patch.Template
	}

	if err := s.landingRepo.Update(ctx, landing); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewDomainError(common.KindDomainAlreadyTaken, "domain is already in use by another landing").
				WithDetail("domain", landing.Domain)
		}
		return nil, common.StorageError(err)
	}

	s.invalidate(ctx, landing.ID)
	if oldDomain != "" && oldDomain != landing.Domain {
		if err := s.cacheSvc.DeleteDomainLanding(ctx, oldDomain); err != nil {
			log.Printf("Failed to invalidate domain cache for %s: %v", oldDomain, err)
		}
	}
	return landing, nil
}

func (s *landingService) Publish(ctx context.Context, landingID uuid.UUID) (*models.Landing, error) {
	landing, err := s.getLanding(ctx, landingID)
	if err != nil {
		return nil, err
	}

	// Re-publishing is a no-op; publish is one-way.
	if landing.IsPublished() {
		return landing, nil
	}

	published, err := s.blockRepo.CountPublished(ctx, landingID)
	if err != nil {
		return nil, common.StorageError(err)
	}
	if published == 0 {
		return nil, common.NewDomainError(common.KindNothingToPublish, "a landing with no published blocks cannot go live").
			WithDetail("landing_id", landingID.String())
	}

	now := time.Now().UTC()
	if err := s.landingRepo.Publish(ctx, landingID, now); err != nil {
		return nil, common.StorageError(err)
	}
	landing.Status = models.LandingStatusPublished
	landing.PublishedAt = &now

	s.invalidate(ctx, landingID)
	return landing, nil
}

func (s *landingService) GetPublicSnapshot(ctx context.Context, landingID uuid.UUID) (*models.PublicSnapshot, error) {
	if cached, err := s.cacheSvc.GetSnapshot(ctx, landingID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Snapshot cache error for landing %s: %v", landingID.String(), err)
	}

	landing, err := s.getLanding(ctx, landingID)
	if err != nil {
		return nil, err
	}

	// Only active, published blocks are ever publicly visible.
	published := models.BlockStatusPublished
	active := true
	blocks, err := s.blockRepo.List(ctx, landingID, &models.BlockFilter{Status: &published, Active: &active})
	if err != nil {
		return nil, common.StorageError(err)
	}

	assets, err := s.assetRepo.List(ctx, landingID, nil)
	if err != nil {
		return nil, common.StorageError(err)
	}
	assetIndex := make(map[uuid.UUID]*models.Asset, len(assets))
	for _, asset := range assets {
		assetIndex[asset.ID] = asset
	}

	snapshot := &models.PublicSnapshot{
		LandingID:   landing.ID,
		Title:       landing.Title,
		Description: landing.Description,
		Domain:      landing.Domain,
		Template:    landing.Template,
		Blocks:      make([]*models.SnapshotBlock, 0, len(blocks)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, block := range blocks {
		snapshot.Blocks = append(snapshot.Blocks, &models.SnapshotBlock{
			ID:           block.ID,
			Type:         block.Type,
			Title:        block.Title,
			Content:      resolveContentAssets(block.Content, assetIndex),
			Settings:     block.Settings,
			SortPosition: block.SortPosition,
		})
	}

	if err := s.cacheSvc.SetSnapshot(ctx, landingID, snapshot, snapshotCacheTTL); err != nil {
		log.Printf("Failed to cache snapshot for landing %s: %v", landingID.String(), err)
	}
	return snapshot, nil
}

func (s *landingService) GetPublicSnapshotByDomain(ctx context.Context, domain string) (*models.PublicSnapshot, error) {
	if landingID, err := s.cacheSvc.GetDomainLanding(ctx, domain); err == nil && landingID != uuid.Nil {
		return s.GetPublicSnapshot(ctx, landingID)
	} else if err != nil {
		log.Printf("Domain cache error for %s: %v", domain, err)
	}

	landing, err := s.landingRepo.GetByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewDomainError(common.KindLandingNotFound, "no landing exists for this domain").
				WithDetail("domain", domain)
		}
		return nil, common.StorageError(err)
	}

	if err := s.cacheSvc.SetDomainLanding(ctx, domain, landing.ID, domainCacheTTL); err != nil {
		log.Printf("Failed to cache domain lookup for %s: %v", domain, err)
	}
	return s.GetPublicSnapshot(ctx, landing.ID)
}

func (s *landingService) getLanding(ctx context.Context, landingID uuid.UUID) (*models.Landing, error) {
	landing, err := s.landingRepo.GetByID(ctx, landingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewDomainError(common.KindLandingNotFound, "landing not found").
				WithDetail("landing_id", landingID.String())
		}
		return nil, common.StorageError(err)
	}
	return landing, nil
}

func (s *landingService) invalidate(ctx context.Context, landingID uuid.UUID) {
	if err := s.cacheSvc.DeleteSnapshot(ctx, landingID); err != nil {
		log.Printf("Failed to invalidate snapshot cache for landing %s: %v", landingID.String(), err)
	}
}

// resolveContentAssets rewrites asset references inside block content to
// public URLs. A string value (or string list element) that parses as a UUID
// is treated as an asset reference; references to assets that no longer exist
// are dropped so a deleted asset never breaks the public page.
func resolveContentAssets(content models.BlockContent, assets map[uuid.UUID]*models.Asset) models.BlockContent {
	resolved := make(models.BlockContent, len(content))
	for key, value := range content {
		switch v := value.(type) {
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				resolved[key] = v
				continue
			}
			if asset, ok := assets[id]; ok {
				resolved[key] = asset.ResolvedURL(models.SizeClassLarge)
			}
			// dangling reference: omit the key entirely
		case []interface{}:
			items := make([]interface{}, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					items = append(items, item)
					continue
				}
				id, err := uuid.Parse(s)
				if err != nil {
					items = append(items, s)
					continue
				}
				if asset, ok := assets[id]; ok {
					items = append(items, asset.ResolvedURL(models.SizeClassLarge))
				}
			}
			resolved[key] = items
		default:
			resolved[key] = value
		}
	}
	return resolved
}
