package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// CostSource is the read-only persistence collaborator behind the cache.
type CostSource interface {
	// ListActiveBaseCosts returns every active base cost row.
	ListActiveBaseCosts(ctx context.Context) ([]BaseCost, error)
	// FindLocationFactor fetches the factor for a 3-digit zip prefix.
	FindLocationFactor(ctx context.Context, zipPrefix string) (LocationFactor, bool, error)
}

// CostCache lazily memoizes base costs by repair code and location factors
// by zip prefix. Population assumes a single logical caller sequence: the
// check-then-fetch is deliberately not serialized, so concurrent first-time
// loads may issue duplicate fetches. The maps themselves are guarded.
type CostCache struct {
	mu      sync.RWMutex
	source  CostSource
	costs   map[string]BaseCost
	factors map[string]LocationFactor
	logger  *slog.Logger
}

// NewCostCache builds an empty cache over the given source.
func NewCostCache(source CostSource, logger *slog.Logger) *CostCache {
	return &CostCache{
		source:  source,
		costs:   make(map[string]BaseCost),
		factors: make(map[string]LocationFactor),
		logger:  logger.With("component", "estimate.costcache"),
	}
}

// LoadBaseCosts populates the base cost table once. A populated cache makes
// this a no-op; only an explicit Clear forces a refetch.
func (c *CostCache) LoadBaseCosts(ctx context.Context) error {
	c.mu.RLock()
	populated := len(c.costs) > 0
	c.mu.RUnlock()
	if populated {
		return nil
	}

	rows, err := c.source.ListActiveBaseCosts(ctx)
	if err != nil {
		return fmt.Errorf("load base costs: %w", err)
	}

	costs := make(map[string]BaseCost, len(rows))
	for _, row := range rows {
		costs[row.RepairCode] = row
	}

	c.mu.Lock()
	c.costs = costs
	c.mu.Unlock()

	c.logger.Info("base costs loaded", "rows", len(rows))
	return nil
}

// BaseCost returns the cached entry for a repair code.
func (c *CostCache) BaseCost(repairCode string) (BaseCost, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cost, ok := c.costs[repairCode]
	return cost, ok
}

// BaseCostsByCategory filters the cached table by category.
func (c *CostCache) BaseCostsByCategory(category string) []BaseCost {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []BaseCost
	for _, cost := range c.costs {
		if cost.Category == category {
			out = append(out, cost)
		}
	}
	return out
}

// BaseCostsForRoom filters the cached table by applicable room type.
func (c *CostCache) BaseCostsForRoom(roomType string) []BaseCost {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []BaseCost
	for _, cost := range c.costs {
		for _, rt := range cost.ApplicableRoomTypes {
			if rt == roomType {
				out = append(out, cost)
				break
			}
		}
	}
	return out
}

// LocationFactor resolves the regional multiplier for a zip code, memoized
// by 3-digit prefix. A miss or a source failure yields the neutral 1.0
// factor: missing regional data must never block an estimate.
func (c *CostCache) LocationFactor(ctx context.Context, zipCode string) LocationFactor {
	prefix := zipCode
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	c.mu.RLock()
	cached, ok := c.factors[prefix]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	factor, found, err := c.source.FindLocationFactor(ctx, prefix)
	if err != nil {
		c.logger.Warn("location factor lookup failed, using national average", "zip_prefix", prefix, "error", err)
		return NeutralFactor(prefix)
	}
	if !found {
		return NeutralFactor(prefix)
	}

	c.mu.Lock()
	c.factors[prefix] = factor
	c.mu.Unlock()
	return factor
}

// Clear empties both tables. Used only for explicit invalidation, never
// implicitly.
func (c *CostCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.costs = make(map[string]BaseCost)
	c.factors = make(map[string]LocationFactor)
}
