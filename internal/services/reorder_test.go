package services

import (
	"testing"

	"buildsite/internal/common"
	"buildsite/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func orderedBlocks(n int) []*models.Block {
	blocks := make([]*models.Block, 0, n)
	for i := 0; i < n; i++ {
		blocks = append(blocks, &models.Block{ID: uuid.New(), SortPosition: i + 1})
	}
	return blocks
}

func TestComputeReorderPlan_ReversesOrder(t *testing.T) {
	blocks := orderedBlocks(3)
	proposed := []uuid.UUID{blocks[2].ID, blocks[1].ID, blocks[0].ID}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.NoError(t, err)
	assert.Equal(t, []models.BlockPosition{
		{BlockID: blocks[2].ID, SortPosition: 1},
		{BlockID: blocks[0].ID, SortPosition: 3},
	}, plan)
}

func TestComputeReorderPlan_MoveLastToFront(t *testing.T) {
	blocks := orderedBlocks(3)
	proposed := []uuid.UUID{blocks[2].ID, blocks[0].ID, blocks[1].ID}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.NoError(t, err)
	assert.Equal(t, []models.BlockPosition{
		{BlockID: blocks[2].ID, SortPosition: 1},
		{BlockID: blocks[0].ID, SortPosition: 2},
		{BlockID: blocks[1].ID, SortPosition: 3},
	}, plan)
}

func TestComputeReorderPlan_UnchangedOrderYieldsEmptyPlan(t *testing.T) {
	blocks := orderedBlocks(4)
	proposed := []uuid.UUID{blocks[0].ID, blocks[1].ID, blocks[2].ID, blocks[3].ID}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.NoError(t, err)
	assert.Empty(t, plan)
}

func TestComputeReorderPlan_SingleBlock(t *testing.T) {
	blocks := orderedBlocks(1)

	plan, err := ComputeReorderPlan(blocks, []uuid.UUID{blocks[0].ID})
	assert.NoError(t, err)
	assert.Empty(t, plan)
}

func TestComputeReorderPlan_CountMismatch(t *testing.T) {
	blocks := orderedBlocks(3)
	proposed := []uuid.UUID{blocks[0].ID, blocks[1].ID}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.Nil(t, plan)
	assert.True(t, common.IsKind(err, common.KindReorderSetMismatch))
}

func TestComputeReorderPlan_ForeignBlockID(t *testing.T) {
	blocks := orderedBlocks(2)
	proposed := []uuid.UUID{blocks[0].ID, uuid.New()}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.Nil(t, plan)
	assert.True(t, common.IsKind(err, common.KindReorderSetMismatch))
}

func TestComputeReorderPlan_DuplicateBlockID(t *testing.T) {
	blocks := orderedBlocks(2)
	proposed := []uuid.UUID{blocks[0].ID, blocks[0].ID}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.Nil(t, plan)
	assert.True(t, common.IsKind(err, common.KindReorderSetMismatch))
}

func TestComputeReorderPlan_OnlyChangedPositionsInPlan(t *testing.T) {
	blocks := orderedBlocks(5)
	// Swap the middle pair, positions 1, 2 and 5 stay put.
	proposed := []uuid.UUID{blocks[0].ID, blocks[1].ID, blocks[3].ID, blocks[2].ID, blocks[4].ID}

	plan, err := ComputeReorderPlan(blocks, proposed)
	assert.NoError(t, err)
	assert.Equal(t, []models.BlockPosition{
		{BlockID: blocks[3].ID, SortPosition: 3},
		{BlockID: blocks[2].ID, SortPosition: 4},
	}, plan)
}
