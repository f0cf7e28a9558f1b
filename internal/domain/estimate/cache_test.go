package estimate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubCostSource struct {
	costs       []BaseCost
	factors     map[string]LocationFactor
	listCalls   int
	listErr     error
	factorCalls int
	factorErr   error
}

func (s *stubCostSource) ListActiveBaseCosts(ctx context.Context) ([]BaseCost, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.costs, nil
}

func (s *stubCostSource) FindLocationFactor(ctx context.Context, zipPrefix string) (LocationFactor, bool, error) {
	s.factorCalls++
	if s.factorErr != nil {
		return LocationFactor{}, false, s.factorErr
	}
	factor, ok := s.factors[zipPrefix]
	return factor, ok, nil
}

func newTestCache(source CostSource) *CostCache {
	return NewCostCache(source, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoadBaseCostsMemoizes(t *testing.T) {
	source := &stubCostSource{
		costs: []BaseCost{
			{RepairCode: "FLR-LVP", Category: "flooring", Unit: "SF", BaseUnitCost: 4.25},
			{RepairCode: "KIT-CAB-PAINT", Category: "kitchen", Unit: "LS", BaseUnitCost: 1200},
		},
	}
	cache := newTestCache(source)
	ctx := context.Background()

	require.NoError(t, cache.LoadBaseCosts(ctx))
	require.NoError(t, cache.LoadBaseCosts(ctx))
	require.NoError(t, cache.LoadBaseCosts(ctx))
	require.Equal(t, 1, source.listCalls)

	cost, ok := cache.BaseCost("FLR-LVP")
	require.True(t, ok)
	require.Equal(t, 4.25, cost.BaseUnitCost)

	_, ok = cache.BaseCost("NOT-A-CODE")
	require.False(t, ok)
}

func TestLoadBaseCostsSourceError(t *testing.T) {
	source := &stubCostSource{listErr: errors.New("db down")}
	cache := newTestCache(source)

	err := cache.LoadBaseCosts(context.Background())
	require.Error(t, err)

	// A failed load leaves the cache empty so the next call retries.
	source.listErr = nil
	source.costs = []BaseCost{{RepairCode: "GEN-PERMITS", BaseUnitCost: 1500}}
	require.NoError(t, cache.LoadBaseCosts(context.Background()))
	_, ok := cache.BaseCost("GEN-PERMITS")
	require.True(t, ok)
}

func TestLocationFactorMemoizesByPrefix(t *testing.T) {
	source := &stubCostSource{
		factors: map[string]LocationFactor{
			"606": {ZipPrefix: "606", City: "Chicago", State: "IL", CombinedFactor: 1.16},
		},
	}
	cache := newTestCache(source)
	ctx := context.Background()

	first := cache.LocationFactor(ctx, "60614")
	second := cache.LocationFactor(ctx, "60601")
	require.Equal(t, 1.16, first.CombinedFactor)
	require.Equal(t, first, second)
	require.Equal(t, 1, source.factorCalls)
}

func TestLocationFactorMissReturnsNeutral(t *testing.T) {
	source := &stubCostSource{factors: map[string]LocationFactor{}}
	cache := newTestCache(source)
	ctx := context.Background()

	factor := cache.LocationFactor(ctx, "99999")
	require.Equal(t, "999", factor.ZipPrefix)
	require.Equal(t, 1.0, factor.CombinedFactor)
	require.Equal(t, 1.0, factor.MaterialFactor)
	require.Equal(t, 1.0, factor.LaborFactor)

	// Misses are not cached; regional data added later is picked up.
	cache.LocationFactor(ctx, "99999")
	require.Equal(t, 2, source.factorCalls)
}

func TestLocationFactorSourceErrorReturnsNeutral(t *testing.T) {
	source := &stubCostSource{factorErr: errors.New("db down")}
	cache := newTestCache(source)

	factor := cache.LocationFactor(context.Background(), "10001")
	require.Equal(t, 1.0, factor.CombinedFactor)
}

func TestLocationFactorShortZip(t *testing.T) {
	source := &stubCostSource{
		factors: map[string]LocationFactor{
			"1": {ZipPrefix: "1", CombinedFactor: 1.2},
		},
	}
	cache := newTestCache(source)

	factor := cache.LocationFactor(context.Background(), "1")
	require.Equal(t, 1.2, factor.CombinedFactor)
}

func TestClearForcesRefetch(t *testing.T) {
	source := &stubCostSource{
		costs: []BaseCost{{RepairCode: "FLR-LVP", BaseUnitCost: 4.25}},
		factors: map[string]LocationFactor{
			"606": {ZipPrefix: "606", CombinedFactor: 1.16},
		},
	}
	cache := newTestCache(source)
	ctx := context.Background()

	require.NoError(t, cache.LoadBaseCosts(ctx))
	cache.LocationFactor(ctx, "60614")

	cache.Clear()

	_, ok := cache.BaseCost("FLR-LVP")
	require.False(t, ok)

	require.NoError(t, cache.LoadBaseCosts(ctx))
	cache.LocationFactor(ctx, "60614")
	require.Equal(t, 2, source.listCalls)
	require.Equal(t, 2, source.factorCalls)
}

func TestBaseCostFilters(t *testing.T) {
	source := &stubCostSource{
		costs: []BaseCost{
			{RepairCode: "KIT-CAB-PAINT", Category: "kitchen", ApplicableRoomTypes: []string{"kitchen"}},
			{RepairCode: "KIT-COUNT-QUARTZ", Category: "kitchen", ApplicableRoomTypes: []string{"kitchen"}},
			{RepairCode: "FLR-LVP", Category: "flooring", ApplicableRoomTypes: []string{"kitchen", "living_room", "bedroom"}},
		},
	}
	cache := newTestCache(source)
	require.NoError(t, cache.LoadBaseCosts(context.Background()))

	require.Len(t, cache.BaseCostsByCategory("kitchen"), 2)
	require.Len(t, cache.BaseCostsByCategory("roofing"), 0)
	require.Len(t, cache.BaseCostsForRoom("kitchen"), 3)
	require.Len(t, cache.BaseCostsForRoom("bedroom"), 1)
}
