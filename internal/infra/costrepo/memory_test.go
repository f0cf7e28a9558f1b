package costrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rehabscope/rehabscope/internal/domain/estimate"
)

var _ estimate.CostSource = (*MemoryRepository)(nil)

func TestSeededRepositoryBaseCosts(t *testing.T) {
	repo := NewSeededMemoryRepository()

	rows, err := repo.ListActiveBaseCosts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	byCode := make(map[string]estimate.BaseCost, len(rows))
	for _, row := range rows {
		require.NotEmpty(t, row.RepairCode)
		require.NotEmpty(t, row.Unit)
		require.Positive(t, row.BaseUnitCost)
		byCode[row.RepairCode] = row
	}

	lvp, ok := byCode["FLR-LVP"]
	require.True(t, ok)
	require.Equal(t, "SF", lvp.Unit)

	_, ok = byCode["KIT-CAB-PAINT"]
	require.True(t, ok)
}

func TestSeededRepositoryLocationFactors(t *testing.T) {
	repo := NewSeededMemoryRepository()
	ctx := context.Background()

	chicago, found, err := repo.FindLocationFactor(ctx, "606")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "IL", chicago.State)
	require.Equal(t, 1.16, chicago.CombinedFactor)

	_, found, err = repo.FindLocationFactor(ctx, "999")
	require.NoError(t, err)
	require.False(t, found)
}
