package repositories

import (
	"context"
	"fmt"

	"buildsite/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, landingID uuid.UUID, filter *models.AssetFilter) ([]*models.Asset, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type assetRepo struct {
	db Database
}

func NewAssetRepo(db Database) AssetRepository {
	return &assetRepo{db: db}
}

const assetColumns = `id, landing_id, filename, asset_type, usage_context, size_bytes, size_human, object_key, public_url, optimized_urls, metadata, created_at, updated_at`

func scanAsset(row pgx.Row) (*models.Asset, error) {
	asset := &models.Asset{}
	err := row.Scan(&asset.ID, &asset.LandingID, &asset.Filename, &asset.AssetType, &asset.UsageContext, &asset.SizeBytes, &asset.SizeHuman, &asset.ObjectKey, &asset.PublicURL, &asset.OptimizedURLs, &asset.Metadata, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *assetRepo) Create(ctx context.Context, asset *models.Asset) error {
	query := `
		INSERT INTO assets (id, landing_id, filename, asset_type, usage_context, size_bytes, size_human, object_key, public_url, optimized_urls, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, asset.ID, asset.LandingID, asset.Filename, asset.AssetType, asset.UsageContext, asset.SizeBytes, asset.SizeHuman, asset.ObjectKey, asset.PublicURL, asset.OptimizedURLs, asset.Metadata)
	return err
}

func (r *assetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return scanAsset(r.db.QueryRow(ctx, query, id))
}

func (r *assetRepo) List(ctx context.Context, landingID uuid.UUID, filter *models.AssetFilter) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE landing_id = $1`
	args := []interface{}{landingID}

	if filter != nil {
		if filter.AssetType != nil {
			args = append(args, *filter.AssetType)
			query += fmt.Sprintf(` AND asset_type = $%d`, len(args))
		}
		if filter.UsageContext != nil {
			args = append(args, *filter.UsageContext)
			query += fmt.Sprintf(` AND usage_context = $%d`, len(args))
		}
		if filter.Filename != "" {
			args = append(args, "%"+filter.Filename+"%")
			query += fmt.Sprintf(` AND filename ILIKE $%d`, len(args))
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *assetRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) error {
	query := `UPDATE assets SET metadata = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, metadata, id)
	return err
}

func (r *assetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM assets WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
