package services

import (
	"context"
	"io"
	"time"

	"buildsite/internal/models"
	"buildsite/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLandingRepository struct {
	mock.Mock
}

func (m *MockLandingRepository) Create(ctx context.Context, landing *models.Landing) error {
	args := m.Called(ctx, landing)
	return args.Error(0)
}

func (m *MockLandingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Landing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Landing), args.Error(1)
}

func (m *MockLandingRepository) GetByHolding(ctx context.Context, holdingID uuid.UUID) (*models.Landing, error) {
	args := m.Called(ctx, holdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Landing), args.Error(1)
}

func (m *MockLandingRepository) GetByDomain(ctx context.Context, domain string) (*models.Landing, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Landing), args.Error(1)
}

func (m *MockLandingRepository) Update(ctx context.Context, landing *models.Landing) error {
	args := m.Called(ctx, landing)
	return args.Error(0)
}

func (m *MockLandingRepository) Publish(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	args := m.Called(ctx, id, publishedAt)
	return args.Error(0)
}

func (m *MockLandingRepository) List(ctx context.Context, limit, offset int) ([]*models.Landing, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Landing), args.Error(1)
}

type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) Create(ctx context.Context, block *models.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Block), args.Error(1)
}

func (m *MockBlockRepository) List(ctx context.Context, landingID uuid.UUID, filter *models.BlockFilter) ([]*models.Block, error) {
	args := m.Called(ctx, landingID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Block), args.Error(1)
}

func (m *MockBlockRepository) UpdateContent(ctx context.Context, id uuid.UUID, content models.BlockContent) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockBlockRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.BlockSettings) error {
	args := m.Called(ctx, id, settings)
	return args.Error(0)
}

func (m *MockBlockRepository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func (m *MockBlockRepository) Publish(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	args := m.Called(ctx, id, publishedAt)
	return args.Error(0)
}

func (m *MockBlockRepository) Delete(ctx context.Context, block *models.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockRepository) Reorder(ctx context.Context, landingID uuid.UUID, plan repositories.ReorderPlanner) ([]*models.Block, error) {
	args := m.Called(ctx, landingID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Block), args.Error(1)
}

func (m *MockBlockRepository) CountPublished(ctx context.Context, landingID uuid.UUID) (int, error) {
	args := m.Called(ctx, landingID)
	return args.Int(0), args.Error(1)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context, landingID uuid.UUID, filter *models.AssetFilter) ([]*models.Asset, error) {
	args := m.Called(ctx, landingID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) error {
	args := m.Called(ctx, id, metadata)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockStorageService) Upload(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, contentType, reader, objectSize)
	return args.Error(0)
}

func (m *MockStorageService) Delete(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) PublicURL(bucketName, objectName string) string {
	args := m.Called(bucketName, objectName)
	return args.String(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetSnapshot(ctx context.Context, landingID uuid.UUID) (*models.PublicSnapshot, error) {
	args := m.Called(ctx, landingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicSnapshot), args.Error(1)
}

func (m *MockCacheService) SetSnapshot(ctx context.Context, landingID uuid.UUID, snapshot *models.PublicSnapshot, ttl time.Duration) error {
	args := m.Called(ctx, landingID, snapshot, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSnapshot(ctx context.Context, landingID uuid.UUID) error {
	args := m.Called(ctx, landingID)
	return args.Error(0)
}

func (m *MockCacheService) GetDomainLanding(ctx context.Context, domain string) (uuid.UUID, error) {
	args := m.Called(ctx, domain)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCacheService) SetDomainLanding(ctx context.Context, domain string, landingID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, domain, landingID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteDomainLanding(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
