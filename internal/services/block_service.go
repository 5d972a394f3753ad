package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"buildsite/internal/caching"
	"buildsite/internal/common"
	"buildsite/internal/models"
	"buildsite/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BlockService is the block store: CRUD plus lifecycle transitions over a
// landing's ordered block collection.
type BlockService interface {
	List(ctx context.Context, landingID uuid.UUID, filter *models.BlockFilter) ([]*models.Block, error)
	Get(ctx context.Context, blockID uuid.UUID) (*models.Block, error)
	Create(ctx context.Context, landingID uuid.UUID, blockType models.BlockType, title *string) (*models.Block, error)
	UpdateContent(ctx context.Context, blockID uuid.UUID, patch models.BlockContent) (*models.Block, error)
	UpdateSettings(ctx context.Context, blockID uuid.UUID, settings models.BlockSettings) (*models.Block, error)
	SetActive(ctx context.Context, blockID uuid.UUID, isActive bool) (*models.Block, error)
	Publish(ctx context.Context, blockID uuid.UUID) (*models.Block, error)
	Duplicate(ctx context.Context, blockID uuid.UUID) (*models.Block, error)
	Delete(ctx context.Context, blockID uuid.UUID) error
	Reorder(ctx context.Context, landingID uuid.UUID, orderedBlockIDs []uuid.UUID) ([]*models.Block, error)
	DefaultTemplates() map[models.BlockType]models.BlockContent
}

type blockService struct {
	blockRepo repositories.BlockRepository
	cacheSvc  caching.CacheService
}

func NewBlockService(blockRepo repositories.BlockRepository, cacheSvc caching.CacheService) BlockService {
	return &blockService{
		blockRepo: blockRepo,
		cacheSvc:  cacheSvc,
	}
}

func (s *blockService) List(ctx context.Context, landingID uuid.UUID, filter *models.BlockFilter) ([]*models.Block, error) {
	blocks, err := s.blockRepo.List(ctx, landingID, filter)
	if err != nil {
		return nil, common.StorageError(err)
	}
	return blocks, nil
}

func (s *blockService) Get(ctx context.Context, blockID uuid.UUID) (*models.Block, error) {
	return s.getBlock(ctx, blockID)
}

func (s *blockService) Create(ctx context.Context, landingID uuid.UUID, blockType models.BlockType, title *string) (*models.Block, error) {
	template, ok := models.DefaultTemplate(blockType)
	if !ok {
		return nil, common.NewDomainError(common.KindInvalidBlockType, "unknown block type").
			WithDetail("block_type", string(blockType))
	}

	blockTitle := defaultBlockTitle(blockType)
	if title != nil && *title != "" {
		blockTitle = *title
	}

	block := &models.Block{
		ID:        uuid.New(),
		LandingID: landingID,
		Type:      blockType,
		Title:     blockTitle,
		Content:   template,
		Settings:  models.BlockSettings{},
		Status:    models.BlockStatusDraft,
		IsActive:  true,
		Deletable: blockType.Deletable(),
	}

	if err := s.blockRepo.Create(ctx, block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewDomainError(common.KindLandingNotFound, "landing not found").
				WithDetail("landing_id", landingID.String())
		}
		return nil, common.StorageError(err)
	}

	s.invalidateSnapshot(ctx, landingID)
	return block, nil
}

func (s *blockService) UpdateContent(ctx context.Context, blockID uuid.UUID, patch models.BlockContent) (*models.Block, error) {
	block, err := s.getBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	merged := block.Content.Merge(patch)
	if missing := models.MissingContentFields(block.Type, merged); len(missing) > 0 {
		return nil, common.NewDomainError(common.KindContentValidationError, "content is missing required fields").
			WithDetail("block_id", blockID.String()).
			WithDetail("missing_fields", strings.Join(missing, ", "))
	}

	if err := s.blockRepo.UpdateContent(ctx, blockID, merged); err != nil {
		return nil, common.StorageError(err)
	}
	block.Content = merged

	s.invalidateSnapshot(ctx, block.LandingID)
	return block, nil
}

func (s *blockService) UpdateSettings(ctx context.Context, blockID uuid.UUID, settings models.BlockSettings) (*models.Block, error) {
	block, err := s.getBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	if err := s.blockRepo.UpdateSettings(ctx, blockID, settings); err != nil {
		return nil, common.StorageError(err)
	}
	block.Settings = settings

	s.invalidateSnapshot(ctx, block.LandingID)
	return block, nil
}

func (s *blockService) SetActive(ctx context.Context, blockID uuid.UUID, isActive bool) (*models.Block, error) {
	block, err := s.getBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	if err := s.blockRepo.SetActive(ctx, blockID, isActive); err != nil {
		return nil, common.StorageError(err)
	}
	block.IsActive = isActive

	s.invalidateSnapshot(ctx, block.LandingID)
	return block, nil
}

func (s *blockService) Publish(ctx context.Context, blockID uuid.UUID) (*models.Block, error) {
	block, err := s.getBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	// Publishing an already published block is a no-op, not an error.
	if block.IsPublished() {
		return block, nil
	}

	now := time.Now().UTC()
	if err := s.blockRepo.Publish(ctx, blockID, now); err != nil {
		return nil, common.StorageError(err)
	}
	block.Status = models.BlockStatusPublished
	block.PublishedAt = &now

	s.invalidateSnapshot(ctx, block.LandingID)
	return block, nil
}

func (s *blockService) Duplicate(ctx context.Context, blockID uuid.UUID) (*models.Block, error) {
	src, err := s.getBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	copyBlock := &models.Block{
		ID:        uuid.New(),
		LandingID: src.LandingID,
		Type:      src.Type,
		Title:     src.Title + " (copy)",
		Content:   src.Content.Copy(),
		Settings:  src.Settings,
		Status:    models.BlockStatusDraft,
		IsActive:  true,
		Deletable: src.Type.Deletable(),
	}

	if err := s.blockRepo.Create(ctx, copyBlock); err != nil {
		return nil, common.StorageError(err)
	}

	s.invalidateSnapshot(ctx, src.LandingID)
	return copyBlock, nil
}

func (s *blockService) Delete(ctx context.Context, blockID uuid.UUID) error {
	block, err := s.getBlock(ctx, blockID)
	if err != nil {
		return err
	}

	if !block.Type.Deletable() {
		return common.NewDomainError(common.KindBlockNotDeletable, "blocks of this type cannot be removed").
			WithDetail("block_id", blockID.String()).
			WithDetail("block_type", string(block.Type))
	}

	if err := s.blockRepo.Delete(ctx, block); err != nil {
		return common.StorageError(err)
	}

	s.invalidateSnapshot(ctx, block.LandingID)
	return nil
}

func (s *blockService) Reorder(ctx context.Context, landingID uuid.UUID, orderedBlockIDs []uuid.UUID) ([]*models.Block, error) {
	// The plan is computed inside the repository's reorder transaction, after
	// the landing lock, so a concurrent create or delete either waits for us
	// or surfaces here as a set mismatch instead of corrupting positions.
	blocks, err := s.blockRepo.Reorder(ctx, landingID, func(current []*models.Block) ([]models.BlockPosition, error) {
		return ComputeReorderPlan(current, orderedBlockIDs)
	})
	if err != nil {
		if _, ok := common.KindOf(err); ok {
			return nil, err
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewDomainError(common.KindLandingNotFound, "landing not found").
				WithDetail("landing_id", landingID.String())
		}
		return nil, common.StorageError(err)
	}

	s.invalidateSnapshot(ctx, landingID)
	return blocks, nil
}

func (s *blockService) DefaultTemplates() map[models.BlockType]models.BlockContent {
	return models.DefaultTemplates()
}

func (s *blockService) getBlock(ctx context.Context, blockID uuid.UUID) (*models.Block, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewDomainError(common.KindBlockNotFound, "block not found").
				WithDetail("block_id", blockID.String())
		}
		return nil, common.StorageError(err)
	}
	return block, nil
}

func (s *blockService) invalidateSnapshot(ctx context.Context, landingID uuid.UUID) {
	if err := s.cacheSvc.DeleteSnapshot(ctx, landingID); err != nil {
		log.Printf("Failed to invalidate snapshot cache for landing %s: %v", landingID.String(), err)
	}
}

func defaultBlockTitle(t models.BlockType) string {
	name := string(t)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
