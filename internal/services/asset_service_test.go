package services

import (
	"context"
	"testing"
	"time"

	"buildsite/internal/common"
	"buildsite/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AssetServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAssetRepository
	mockStorage *MockStorageService
	mockCache   *MockCacheService
	service     AssetService
	landingID   uuid.UUID
}

func (suite *AssetServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockAssetRepository{}
	suite.mockStorage = &MockStorageService{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewAssetService(suite.mockRepo, suite.mockStorage, suite.mockCache)
	suite.landingID = uuid.New()

	suite.mockRepo.Test(suite.T())
	suite.mockStorage.Test(suite.T())
	suite.mockCache.Test(suite.T())
}

func (suite *AssetServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}

func (suite *AssetServiceTestSuite) TestRegister_Image() {
	ctx := context.Background()
	req := &RegisterAssetRequest{
		Filename:     "facade.jpg",
		SizeBytes:    1000000,
		MimeType:     "image/jpeg",
		UsageContext: models.UsageContextHero,
		ObjectKey:    "landing/facade.jpg",
		PublicURL:    "https://cdn.example/facade.jpg",
		OptimizedURLs: map[models.SizeClass]string{
			models.SizeClassThumbnail: "https://cdn.example/facade_thumbnail.jpg",
		},
	}

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Asset")).Return(nil)
	suite.mockCache.On("DeleteSnapshot", mock.Anything, suite.landingID).Return(nil)

	asset, err := suite.service.Register(ctx, suite.landingID, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssetTypeImage, asset.AssetType)
	assert.Equal(suite.T(), models.UsageContextHero, asset.UsageContext)
	assert.Equal(suite.T(), "1.0 MB", asset.SizeHuman)
	assert.Equal(suite.T(), req.OptimizedURLs, asset.OptimizedURLs)
	assert.NotNil(suite.T(), asset.Metadata)
}

func (suite *AssetServiceTestSuite) TestRegister_DocumentDropsVariants() {
	ctx := context.Background()
	req := &RegisterAssetRequest{
		Filename:     "license.pdf",
		SizeBytes:    52000,
		MimeType:     "application/pdf",
		UsageContext: models.UsageContextGeneral,
		ObjectKey:    "landing/license.pdf",
		PublicURL:    "https://cdn.example/license.pdf",
		OptimizedURLs: map[models.SizeClass]string{
			models.SizeClassSmall: "https://cdn.example/license_small.pdf",
		},
	}

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Asset")).Return(nil)
	suite.mockCache.On("DeleteSnapshot", mock.Anything, suite.landingID).Return(nil)

	asset, err := suite.service.Register(ctx, suite.landingID, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssetTypeDocument, asset.AssetType)
	assert.Nil(suite.T(), asset.OptimizedURLs)
}

func (suite *AssetServiceTestSuite) TestRegister_UnsupportedMimeType() {
	ctx := context.Background()
	req := &RegisterAssetRequest{
		Filename:  "jingle.mp3",
		SizeBytes: 300000,
		MimeType:  "audio/mpeg",
	}

	asset, err := suite.service.Register(ctx, suite.landingID, req)
	assert.Nil(suite.T(), asset)
	assert.True(suite.T(), common.IsKind(err, common.KindUnsupportedMimeType))
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AssetServiceTestSuite) TestRegister_RejectsNonPositiveSize() {
	ctx := context.Background()

	for _, size := range []int64{0, -5} {
		req := &RegisterAssetRequest{
			Filename:  "facade.jpg",
			SizeBytes: size,
			MimeType:  "image/jpeg",
		}

		asset, err := suite.service.Register(ctx, suite.landingID, req)
		assert.Nil(suite.T(), asset)
		assert.True(suite.T(), common.IsKind(err, common.KindInvalidAssetDescriptor))
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AssetServiceTestSuite) TestRegister_UnknownUsageFallsBackToGeneral() {
	ctx := context.Background()
	req := &RegisterAssetRequest{
		Filename:     "crew.png",
		SizeBytes:    2048,
		MimeType:     "image/png",
		UsageContext: models.UsageContext("sidebar"),
	}

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Asset")).Return(nil)
	suite.mockCache.On("DeleteSnapshot", mock.Anything, suite.landingID).Return(nil)

	asset, err := suite.service.Register(ctx, suite.landingID, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.UsageContextGeneral, asset.UsageContext)
}

func (suite *AssetServiceTestSuite) TestUpdateMetadata_MergesPatch() {
	ctx := context.Background()
	assetID := uuid.New()
	existing := &models.Asset{
		ID:        assetID,
		LandingID: suite.landingID,
		Metadata:  map[string]string{"alt_text": "facade", "caption": "old"},
	}

	suite.mockRepo.On("GetByID", ctx, assetID).Return(existing, nil)
	suite.mockRepo.On("UpdateMetadata", ctx, assetID, map[string]string{
		"alt_text": "facade",
		"caption":  "new office building",
	}).Return(nil)
	suite.mockCache.On("DeleteSnapshot", mock.Anything, suite.landingID).Return(nil)

	asset, err := suite.service.UpdateMetadata(ctx, assetID, map[string]string{"caption": "new office building"})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "facade", asset.Metadata["alt_text"])
	assert.Equal(suite.T(), "new office building", asset.Metadata["caption"])
}

func (suite *AssetServiceTestSuite) TestDelete_ReturnsDeletedRecord() {
	ctx := context.Background()
	assetID := uuid.New()
	existing := &models.Asset{ID: assetID, LandingID: suite.landingID, ObjectKey: "landing/facade.jpg"}

	suite.mockRepo.On("GetByID", ctx, assetID).Return(existing, nil)
	suite.mockRepo.On("Delete", ctx, assetID).Return(nil)
	suite.mockCache.On("Delete", ctx, "buildsite:presign:"+assetID.String()).Return(nil)
	suite.mockCache.On("DeleteSnapshot", mock.Anything, suite.landingID).Return(nil)

	asset, err := suite.service.Delete(ctx, assetID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), existing, asset)
}

func (suite *AssetServiceTestSuite) TestDownloadURL_SignsAndCaches() {
	ctx := context.Background()
	assetID := uuid.New()
	existing := &models.Asset{ID: assetID, LandingID: suite.landingID, ObjectKey: "landing/facade.jpg"}
	cacheKey := "buildsite:presign:" + assetID.String()
	signed := "https://storage.example/landing-assets/landing/facade.jpg?signature=abc"

	suite.mockRepo.On("GetByID", ctx, assetID).Return(existing, nil)
	suite.mockCache.On("GetString", ctx, cacheKey).Return("", nil)
	suite.mockStorage.On("GetPresignedURL", AssetBucket, existing.ObjectKey, 15*time.Minute).Return(signed, nil)
	suite.mockCache.On("SetString", ctx, cacheKey, signed, 10*time.Minute).Return(nil)

	url, err := suite.service.DownloadURL(ctx, assetID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), signed, url)
}

func (suite *AssetServiceTestSuite) TestDownloadURL_ServesCachedLink() {
	ctx := context.Background()
	assetID := uuid.New()
	existing := &models.Asset{ID: assetID, LandingID: suite.landingID, ObjectKey: "landing/facade.jpg"}
	cacheKey := "buildsite:presign:" + assetID.String()
	signed := "https://storage.example/landing-assets/landing/facade.jpg?signature=abc"

	suite.mockRepo.On("GetByID", ctx, assetID).Return(existing, nil)
	suite.mockCache.On("GetString", ctx, cacheKey).Return(signed, nil)

	url, err := suite.service.DownloadURL(ctx, assetID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), signed, url)
	suite.mockStorage.AssertNotCalled(suite.T(), "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AssetServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	assetID := uuid.New()

	suite.mockRepo.On("GetByID", ctx, assetID).Return(nil, pgx.ErrNoRows)

	asset, err := suite.service.GetByID(ctx, assetID)
	assert.Nil(suite.T(), asset)
	assert.True(suite.T(), common.IsKind(err, common.KindAssetNotFound))
}
