package services

import (
	"strconv"

	"buildsite/internal/common"
	"buildsite/internal/models"

	"github.com/google/uuid"
)

// ComputeReorderPlan converts a client-proposed ordering of block IDs into
// the positions to persist. The proposal must be an exact permutation of the
// current blocks (same cardinality, same set); otherwise it fails with
// ReorderSetMismatch and nothing should be written.
//
// Positions are dense and 1-based: the block at index i gets position i+1.
// The returned plan only contains blocks whose position actually changes, so
// an unchanged proposal yields an empty plan and the caller can skip the
// write entirely. Runs in O(n).
func ComputeReorderPlan(current []*models.Block, proposed []uuid.UUID) ([]models.BlockPosition, error) {
	if len(proposed) != len(current) {
		return nil, common.NewDomainError(common.KindReorderSetMismatch, "proposed order does not match the landing's block set").
			WithDetail("expected_count", strconv.Itoa(len(current))).
			WithDetail("proposed_count", strconv.Itoa(len(proposed)))
	}

	byID := make(map[uuid.UUID]*models.Block, len(current))
	for _, block := range current {
		byID[block.ID] = block
	}

	seen := make(map[uuid.UUID]bool, len(proposed))
	var plan []models.BlockPosition
	for i, id := range proposed {
		block, ok := byID[id]
		if !ok {
			return nil, common.NewDomainError(common.KindReorderSetMismatch, "proposed order references a block outside this landing").
				WithDetail("block_id", id.String())
		}
		if seen[id] {
			return nil, common.NewDomainError(common.KindReorderSetMismatch, "proposed order contains a duplicate block").
				WithDetail("block_id", id.String())
		}
		seen[id] = true

		position := i + 1
		if block.SortPosition != position {
			plan = append(plan, models.BlockPosition{BlockID: id, SortPosition: position})
		}
	}
	return plan, nil
}
