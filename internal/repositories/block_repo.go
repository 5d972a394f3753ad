package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"buildsite/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReorderPlanner converts the landing's current ordered block set into the
// positions to persist. It runs inside the reorder transaction, after the
// landing lock, so the plan is always computed against fresh state.
type ReorderPlanner func(current []*models.Block) ([]models.BlockPosition, error)

type BlockRepository interface {
	// Create appends the block at the tail of its landing's collection,
	// assigning the next dense sort position. Returns pgx.ErrNoRows when the
	// landing does not exist.
	Create(ctx context.Context, block *models.Block) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Block, error)
	List(ctx context.Context, landingID uuid.UUID, filter *models.BlockFilter) ([]*models.Block, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content models.BlockContent) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings models.BlockSettings) error
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
	Publish(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
	// Delete removes the block and compacts the sort positions of the blocks
	// after it, inside one transaction.
	Delete(ctx context.Context, block *models.Block) error
	// Reorder locks the landing, reads the current block set, asks plan for
	// the positions to persist and applies them, all in one transaction.
	// Returns the blocks in their final order.
	Reorder(ctx context.Context, landingID uuid.UUID, plan ReorderPlanner) ([]*models.Block, error)
	CountPublished(ctx context.Context, landingID uuid.UUID) (int, error)
}

type blockRepo struct {
	db Database
}

func NewBlockRepo(db Database) BlockRepository {
	return &blockRepo{db: db}
}

const blockColumns = `id, landing_id, block_type, title, content, settings, sort_position, status, is_active, published_at, created_at, updated_at`

func scanBlock(row pgx.Row) (*models.Block, error) {
	block := &models.Block{}
	err := row.Scan(&block.ID, &block.LandingID, &block.Type, &block.Title, &block.Content, &block.Settings, &block.SortPosition, &block.Status, &block.IsActive, &block.PublishedAt, &block.CreatedAt, &block.UpdatedAt)
	if err != nil {
		return nil, err
	}
	block.Deletable = block.Type.Deletable()
	return block, nil
}

// lockLanding serializes structural mutations per landing. Position math must
// not interleave, or the dense 1..N invariant breaks.
func lockLanding(ctx context.Context, tx pgx.Tx, landingID uuid.UUID) error {
	var id uuid.UUID
	return tx.QueryRow(ctx, `SELECT id FROM landings WHERE id = $1 FOR UPDATE`, landingID).Scan(&id)
}

func (r *blockRepo) Create(ctx context.Context, block *models.Block) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockLanding(ctx, tx, block.LandingID); err != nil {
		return err
	}

	var position int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(sort_position), 0) + 1 FROM blocks WHERE landing_id = $1`, block.LandingID).Scan(&position)
	if err != nil {
		return err
	}
	block.SortPosition = position

	query := `
		INSERT INTO blocks (id, landing_id, block_type, title, content, settings, sort_position, status, is_active, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, block.ID, block.LandingID, block.Type, block.Title, block.Content, block.Settings, block.SortPosition, block.Status, block.IsActive, block.PublishedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *blockRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = $1`
	return scanBlock(r.db.QueryRow(ctx, query, id))
}

func (r *blockRepo) List(ctx context.Context, landingID uuid.UUID, filter *models.BlockFilter) ([]*models.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE landing_id = $1`
	args := []interface{}{landingID}

	if filter != nil {
		if filter.Status != nil {
			args = append(args, *filter.Status)
			query += fmt.Sprintf(` AND status = $%d`, len(args))
		}
		if filter.Type != nil {
			args = append(args, *filter.Type)
			query += fmt.Sprintf(` AND block_type = $%d`, len(args))
		}
		if filter.Active != nil {
			args = append(args, *filter.Active)
			query += fmt.Sprintf(` AND is_active = $%d`, len(args))
		}
	}
	query += ` ORDER BY sort_position ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBlocks(rows)
}

func collectBlocks(rows pgx.Rows) ([]*models.Block, error) {
	defer rows.Close()

	var blocks []*models.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

func (r *blockRepo) UpdateContent(ctx context.Context, id uuid.UUID, content models.BlockContent) error {
	query := `UPDATE blocks SET content = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, content, id)
	return err
}

func (r *blockRepo) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.BlockSettings) error {
	query := `UPDATE blocks SET settings = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, settings, id)
	return err
}

func (r *blockRepo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE blocks SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, isActive, id)
	return err
}

func (r *blockRepo) Publish(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	query := `UPDATE blocks SET status = $1, published_at = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.Exec(ctx, query, models.BlockStatusPublished, publishedAt, id)
	return err
}

func (r *blockRepo) Delete(ctx context.Context, block *models.Block) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockLanding(ctx, tx, block.LandingID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, block.ID); err != nil {
		return err
	}

	// Close the gap left by the deleted block.
	compact := `UPDATE blocks SET sort_position = sort_position - 1, updated_at = NOW() WHERE landing_id = $1 AND sort_position > $2`
	if _, err := tx.Exec(ctx, compact, block.LandingID, block.SortPosition); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *blockRepo) Reorder(ctx context.Context, landingID uuid.UUID, plan ReorderPlanner) ([]*models.Block, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockLanding(ctx, tx, landingID); err != nil {
		return nil, err
	}

	// The set is read under the lock so a concurrent create or delete cannot
	// invalidate the plan between planning and writing.
	rows, err := tx.Query(ctx, `SELECT `+blockColumns+` FROM blocks WHERE landing_id = $1 ORDER BY sort_position ASC`, landingID)
	if err != nil {
		return nil, err
	}
	current, err := collectBlocks(rows)
	if err != nil {
		return nil, err
	}

	positions, err := plan(current)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return current, tx.Commit(ctx)
	}

	byID := make(map[uuid.UUID]*models.Block, len(current))
	for _, block := range current {
		byID[block.ID] = block
	}

	query := `UPDATE blocks SET sort_position = $1, updated_at = NOW() WHERE landing_id = $2 AND id = $3`
	for _, p := range positions {
		tag, err := tx.Exec(ctx, query, p.SortPosition, landingID, p.BlockID)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, pgx.ErrNoRows
		}
		if block, ok := byID[p.BlockID]; ok {
			block.SortPosition = p.SortPosition
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	sort.Slice(current, func(i, j int) bool { return current[i].SortPosition < current[j].SortPosition })
	return current, nil
}

func (r *blockRepo) CountPublished(ctx context.Context, landingID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM blocks WHERE landing_id = $1 AND status = $2`
	err := r.db.QueryRow(ctx, query, landingID, models.BlockStatusPublished).Scan(&count)
	return count, err
}
