package jobs

import (
	"context"
	"log"

	"buildsite/internal/repositories"

	"github.com/google/uuid"
)

// AssetAuditService finds blocks whose content still references assets that
// have been deleted. The public snapshot already degrades such references;
// the audit surfaces them so staff can repair the content.
type AssetAuditService struct {
	landingRepo repositories.LandingRepository
	blockRepo   repositories.BlockRepository
	assetRepo   repositories.AssetRepository
}

// DanglingReference is one broken asset reference inside a block's content.
type DanglingReference struct {
	LandingID uuid.UUID
	BlockID   uuid.UUID
	AssetID   uuid.UUID
}

func NewAssetAuditService(landingRepo repositories.LandingRepository, blockRepo repositories.BlockRepository, assetRepo repositories.AssetRepository) *AssetAuditService {
	return &AssetAuditService{
		landingRepo: landingRepo,
		blockRepo:   blockRepo,
		assetRepo:   assetRepo,
	}
}

// CheckLanding reports the dangling asset references of one landing.
func (a *AssetAuditService) CheckLanding(ctx context.Context, landingID uuid.UUID) ([]DanglingReference, error) {
	blocks, err := a.blockRepo.List(ctx, landingID, nil)
	if err != nil {
		log.Printf("Failed to list blocks for landing %s: %v", landingID.String(), err)
		return nil, err
	}

	assets, err := a.assetRepo.List(ctx, landingID, nil)
	if err != nil {
		log.Printf("Failed to list assets for landing %s: %v", landingID.String(), err)
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(assets))
	for _, asset := range assets {
		known[asset.ID] = true
	}

	var dangling []DanglingReference
	for _, block := range blocks {
		for _, ref := range block.Content.AssetRefs() {
			if !known[ref] {
				dangling = append(dangling, DanglingReference{
					LandingID: landingID,
					BlockID:   block.ID,
					AssetID:   ref,
				})
			}
		}
	}
	return dangling, nil
}

// CheckAll audits every landing and logs what it finds.
func (a *AssetAuditService) CheckAll(ctx context.Context) error {
	landings, err := a.landingRepo.List(ctx, 1000, 0) // Reasonable limit
	if err != nil {
		log.Printf("Failed to list landings for asset audit: %v", err)
		return err
	}

	total := 0
	for _, landing := range landings {
		dangling, err := a.CheckLanding(ctx, landing.ID)
		if err != nil {
			continue
		}
		for _, ref := range dangling {
			log.Printf("Dangling asset reference: landing=%s block=%s asset=%s", ref.LandingID.String(), ref.BlockID.String(), ref.AssetID.String())
		}
		total += len(dangling)
	}

	if total > 0 {
		log.Printf("Asset audit found %d dangling references", total)
	}
	return nil
}
