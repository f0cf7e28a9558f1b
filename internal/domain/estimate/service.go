package estimate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	apperrors "github.com/rehabscope/rehabscope/pkg/errors"
	"github.com/rehabscope/rehabscope/pkg/util"
)

// Service turns AI repair suggestions and user entries into priced,
// contingency-adjusted estimates.
type Service interface {
	PriceSuggestions(ctx context.Context, suggestions []analysis.SuggestedRepair, zipCode string) ([]RepairItem, error)
	AddUserItem(ctx context.Context, repairCode, description string, quantity float64, unit, zipCode string) (RepairItem, error)
	ApplyQuantity(item RepairItem, quantity float64) RepairItem
	ApplyUnitCost(item RepairItem, unitCost float64) RepairItem
	Totals(items []RepairItem, contingencyPct float64) Totals
	ReloadCosts(ctx context.Context) error
}

type service struct {
	cache  *CostCache
	logger *slog.Logger
}

// NewService wires the estimate domain.
func NewService(cache *CostCache, logger *slog.Logger) Service {
	return &service{
		cache:  cache,
		logger: logger.With("component", "estimate.service"),
	}
}

// PriceSuggestions resolves each suggested repair against the cost table
// adjusted for the property's region. Unknown repair codes become zero
// cost lines flagged NeedsPricing so the UI can ask for manual correction;
// they never fail the call.
func (s *service) PriceSuggestions(ctx context.Context, suggestions []analysis.SuggestedRepair, zipCode string) ([]RepairItem, error) {
	if strings.TrimSpace(zipCode) == "" {
		return nil, apperrors.Wrap("invalid_input", "zip code is required", nil)
	}
	if err := s.cache.LoadBaseCosts(ctx); err != nil {
		return nil, apperrors.Wrap("estimate_error", "base cost load failed", err)
	}
	factor := s.cache.LocationFactor(ctx, zipCode)

	items := make([]RepairItem, 0, len(suggestions))
	for i, suggestion := range suggestions {
		items = append(items, s.buildItem(suggestion, factor, SourceAI, i))
	}

	s.logger.Info("suggestions priced",
		"zip_prefix", factor.ZipPrefix,
		"combined_factor", factor.CombinedFactor,
		"items", len(items),
	)
	return items, nil
}

// AddUserItem creates a manual line, priced from the cost table when the
// code matches.
func (s *service) AddUserItem(ctx context.Context, repairCode, description string, quantity float64, unit, zipCode string) (RepairItem, error) {
	if strings.TrimSpace(repairCode) == "" {
		return RepairItem{}, apperrors.Wrap("invalid_input", "repair code is required", nil)
	}
	if quantity < 0 {
		return RepairItem{}, apperrors.Wrap("invalid_input", "quantity cannot be negative", nil)
	}
	if err := s.cache.LoadBaseCosts(ctx); err != nil {
		return RepairItem{}, apperrors.Wrap("estimate_error", "base cost load failed", err)
	}
	factor := s.cache.LocationFactor(ctx, zipCode)

	item := s.buildItem(analysis.SuggestedRepair{
		RepairCode:        repairCode,
		Description:       description,
		EstimatedQuantity: quantity,
		Unit:              unit,
	}, factor, SourceUser, 0)
	item.Confidence = 0
	return item, nil
}

func (s *service) buildItem(suggestion analysis.SuggestedRepair, factor LocationFactor, source ItemSource, sortOrder int) RepairItem {
	baseCost, known := s.cache.BaseCost(suggestion.RepairCode)

	unitCost := 0.0
	if known {
		unitCost = AdjustedCost(baseCost.BaseUnitCost, factor)
	}

	quantity := suggestion.EstimatedQuantity
	if quantity <= 0 {
		quantity = 1
	}

	unit := suggestion.Unit
	if unit == "" {
		unit = baseCost.Unit
	}
	if unit == "" {
		unit = "EA"
	}

	description := suggestion.Description
	if description == "" {
		description = baseCost.Description
	}
	if description == "" {
		description = suggestion.RepairCode
	}

	confidence := suggestion.Confidence
	if source == SourceAI && confidence == 0 {
		confidence = 0.5
	}

	now := util.NowUTC()
	return RepairItem{
		ID:           uuid.New().String(),
		RepairCode:   suggestion.RepairCode,
		Category:     baseCost.Category,
		Description:  description,
		Quantity:     quantity,
		Unit:         unit,
		UnitCost:     unitCost,
		TotalCost:    LineItemTotal(quantity, unitCost),
		IsSelected:   true,
		Source:       source,
		NeedsPricing: !known,
		Confidence:   confidence,
		Reasoning:    suggestion.Reasoning,
		SortOrder:    sortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyQuantity sets a new quantity and re-derives the line total.
func (s *service) ApplyQuantity(item RepairItem, quantity float64) RepairItem {
	if quantity < 0 {
		quantity = 0
	}
	item.Quantity = quantity
	item.TotalCost = LineItemTotal(quantity, item.UnitCost)
	item.UpdatedAt = util.NowUTC()
	return item
}

// ApplyUnitCost sets a new unit cost and re-derives the line total.
func (s *service) ApplyUnitCost(item RepairItem, unitCost float64) RepairItem {
	if unitCost < 0 {
		unitCost = 0
	}
	item.UnitCost = unitCost
	item.TotalCost = LineItemTotal(item.Quantity, unitCost)
	item.NeedsPricing = false
	item.UpdatedAt = util.NowUTC()
	return item
}

// Totals rolls up selected lines at the caller-supplied contingency. A
// negative percentage selects the default; an explicit zero is honored as
// a no-contingency estimate.
func (s *service) Totals(items []RepairItem, contingencyPct float64) Totals {
	if contingencyPct < 0 {
		contingencyPct = DefaultContingencyPct
	}
	return EstimateTotal(items, contingencyPct)
}

// ReloadCosts empties both cache tables and fetches base costs again.
// Admin refresh only; nothing invalidates the cache implicitly.
func (s *service) ReloadCosts(ctx context.Context) error {
	s.cache.Clear()
	if err := s.cache.LoadBaseCosts(ctx); err != nil {
		return apperrors.Wrap("estimate_error", "base cost reload failed", err)
	}
	return nil
}
