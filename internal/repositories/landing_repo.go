package repositories

import (
	"context"
	"errors"
	"time"

	"buildsite/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories depend on; pgxmock
// satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type LandingRepository interface {
	Create(ctx context.Context, landing *models.Landing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Landing, error)
	GetByHolding(ctx context.Context, holdingID uuid.UUID) (*models.Landing, error)
	GetByDomain(ctx context.Context, domain string) (*models.Landing, error)
	Update(ctx context.Context, landing *models.Landing) error
	Publish(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*models.Landing, error)
}

type landingRepo struct {
	db Database
}

func NewLandingRepo(db Database) LandingRepository {
	return &landingRepo{db: db}
}

const landingColumns = `id, holding_id, title, description, domain, template, status, published_at, preview_url, created_at, updated_at`

func scanLanding(row pgx.Row) (*models.Landing, error) {
	landing := &models.Landing{}
	err := row.Scan(&landing.ID, &landing.HoldingID, &landing.Title, &landing.Description, &landing.Domain, &landing.Template, &landing.Status, &landing.PublishedAt, &landing.PreviewURL, &landing.CreatedAt, &landing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return landing, nil
}

func (r *landingRepo) Create(ctx context.Context, landing *models.Landing) error {
	query := `
		INSERT INTO landings (id, holding_id, title, description, domain, template, status, published_at, preview_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, landing.ID, landing.HoldingID, landing.Title, landing.Description, landing.Domain, landing.Template, landing.Status, landing.PublishedAt, landing.PreviewURL)
	return err
}

func (r *landingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Landing, error) {
	query := `SELECT ` + landingColumns + ` FROM landings WHERE id = $1`
	return scanLanding(r.db.QueryRow(ctx, query, id))
}

func (r *landingRepo) GetByHolding(ctx context.Context, holdingID uuid.UUID) (*models.Landing, error) {
	query := `SELECT ` + landingColumns + ` FROM landings WHERE holding_id = $1`
	return scanLanding(r.db.QueryRow(ctx, query, holdingID))
}

func (r *landingRepo) GetByDomain(ctx context.Context, domain string) (*models.Landing, error) {
	query := `SELECT ` + landingColumns + ` FROM landings WHERE domain = $1`
	return scanLanding(r.db.QueryRow(ctx, query, domain))
}

func (r *landingRepo) Update(ctx context.Context, landing *models.Landing) error {
	query := `
		UPDATE landings
		SET title = $1, description = $2, domain = $3, template = $4, preview_url = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, landing.Title, landing.Description, landing.Domain, landing.Template, landing.PreviewURL, landing.ID)
	return err
}

func (r *landingRepo) Publish(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	query := `
		UPDATE landings
		SET status = $1, published_at = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, models.LandingStatusPublished, publishedAt, id)
	return err
}

func (r *landingRepo) List(ctx context.Context, limit, offset int) ([]*models.Landing, error) {
	query := `SELECT ` + landingColumns + ` FROM landings ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landings []*models.Landing
	for rows.Next() {
		landing, err := scanLanding(rows)
		if err != nil {
			return nil, err
		}
		landings = append(landings, landing)
	}
	return landings, rows.Err()
}
