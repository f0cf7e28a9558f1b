package costrepo

import (
	"context"
	"sync"

	"github.com/rehabscope/rehabscope/internal/domain/estimate"
)

// MemoryRepository is an in-memory estimate.CostSource used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	costs   []estimate.BaseCost
	factors map[string]estimate.LocationFactor
}

// NewMemoryRepository constructs a repository over the given rows.
func NewMemoryRepository(costs []estimate.BaseCost, factors []estimate.LocationFactor) *MemoryRepository {
	byPrefix := make(map[string]estimate.LocationFactor, len(factors))
	for _, f := range factors {
		byPrefix[f.ZipPrefix] = f
	}
	return &MemoryRepository{costs: costs, factors: byPrefix}
}

// NewSeededMemoryRepository returns a repository preloaded with a small
// national-average table so the service is usable without a database.
func NewSeededMemoryRepository() *MemoryRepository {
	return NewMemoryRepository(seedBaseCosts, seedLocationFactors)
}

// ListActiveBaseCosts implements estimate.CostSource.
func (r *MemoryRepository) ListActiveBaseCosts(_ context.Context) ([]estimate.BaseCost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]estimate.BaseCost, len(r.costs))
	copy(out, r.costs)
	return out, nil
}

// FindLocationFactor implements estimate.CostSource.
func (r *MemoryRepository) FindLocationFactor(_ context.Context, zipPrefix string) (estimate.LocationFactor, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factor, ok := r.factors[zipPrefix]
	return factor, ok, nil
}

var seedBaseCosts = []estimate.BaseCost{
	{ID: "bc-001", RepairCode: "EXT-SIDING-VINYL", Category: "exterior", Subcategory: "siding", Description: "Vinyl siding replacement", Unit: "SF", BaseUnitCost: 6.50, ApplicableRoomTypes: []string{"exterior_front", "exterior_rear", "exterior_left", "exterior_right"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-002", RepairCode: "EXT-SIDING-PAINT", Category: "exterior", Subcategory: "siding", Description: "Exterior paint", Unit: "SF", BaseUnitCost: 2.25, ApplicableRoomTypes: []string{"exterior_front", "exterior_rear", "exterior_left", "exterior_right"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-003", RepairCode: "EXT-ROOF-SHINGLE-ARCH", Category: "exterior", Subcategory: "roof", Description: "Architectural shingle roof replacement", Unit: "SQ", BaseUnitCost: 475, ApplicableRoomTypes: []string{"exterior_roof"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-004", RepairCode: "EXT-GUTTER-SEAMLESS", Category: "exterior", Subcategory: "roof", Description: "Seamless aluminum gutters", Unit: "LF", BaseUnitCost: 9.50, ApplicableRoomTypes: []string{"exterior_roof", "exterior_front", "exterior_rear"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-005", RepairCode: "EXT-FNDTN-CRACK-REPAIR", Category: "structure", Subcategory: "foundation", Description: "Foundation crack injection repair", Unit: "EA", BaseUnitCost: 650, ApplicableRoomTypes: []string{"exterior_foundation", "basement"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-006", RepairCode: "KIT-CAB-REPLACE-SHAKER", Category: "kitchen", Subcategory: "cabinets", Description: "Shaker cabinet replacement", Unit: "LF", BaseUnitCost: 185, ApplicableRoomTypes: []string{"kitchen"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-007", RepairCode: "KIT-CAB-PAINT", Category: "kitchen", Subcategory: "cabinets", Description: "Paint existing cabinets", Unit: "LF", BaseUnitCost: 55, ApplicableRoomTypes: []string{"kitchen"}, RehabLevels: []string{"cosmetic"}},
	{ID: "bc-008", RepairCode: "KIT-COUNT-QUARTZ", Category: "kitchen", Subcategory: "countertops", Description: "Quartz countertops installed", Unit: "SF", BaseUnitCost: 75, ApplicableRoomTypes: []string{"kitchen"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-009", RepairCode: "KIT-COUNT-LAMINATE", Category: "kitchen", Subcategory: "countertops", Description: "Laminate countertops installed", Unit: "SF", BaseUnitCost: 28, ApplicableRoomTypes: []string{"kitchen"}, RehabLevels: []string{"cosmetic", "moderate"}},
	{ID: "bc-010", RepairCode: "KIT-APPL-SS-PACKAGE", Category: "kitchen", Subcategory: "appliances", Description: "Stainless appliance package", Unit: "LS", BaseUnitCost: 3200, ApplicableRoomTypes: []string{"kitchen"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-011", RepairCode: "BATH-VANITY-36", Category: "bathroom", Subcategory: "vanity", Description: "36in vanity with top", Unit: "EA", BaseUnitCost: 550, ApplicableRoomTypes: []string{"bathroom"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-012", RepairCode: "BATH-TOILET-STANDARD", Category: "bathroom", Subcategory: "fixtures", Description: "Standard height toilet replacement", Unit: "EA", BaseUnitCost: 325, ApplicableRoomTypes: []string{"bathroom"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-013", RepairCode: "BATH-TUB-SURROUND", Category: "bathroom", Subcategory: "tub", Description: "Tub surround replacement", Unit: "EA", BaseUnitCost: 1100, ApplicableRoomTypes: []string{"bathroom"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-014", RepairCode: "FLR-LVP", Category: "flooring", Description: "Luxury vinyl plank flooring", Unit: "SF", BaseUnitCost: 5.25, ApplicableRoomTypes: []string{"kitchen", "bathroom", "living_room", "bedroom", "dining_room", "hallway", "laundry"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-015", RepairCode: "FLR-CARPET", Category: "flooring", Description: "Carpet with pad installed", Unit: "SF", BaseUnitCost: 3.10, ApplicableRoomTypes: []string{"bedroom", "living_room", "basement"}, RehabLevels: []string{"cosmetic", "moderate"}},
	{ID: "bc-016", RepairCode: "FLR-HARDWOOD-REFINISH", Category: "flooring", Description: "Sand and refinish hardwood", Unit: "SF", BaseUnitCost: 4.50, ApplicableRoomTypes: []string{"living_room", "bedroom", "dining_room", "hallway"}, RehabLevels: []string{"cosmetic", "moderate"}},
	{ID: "bc-017", RepairCode: "PAINT-INT-WALLS", Category: "paint", Description: "Interior wall paint, two coats", Unit: "SF", BaseUnitCost: 1.85, ApplicableRoomTypes: []string{"kitchen", "bathroom", "bedroom", "living_room", "dining_room", "hallway", "office", "laundry"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-018", RepairCode: "ELEC-PANEL-200A", Category: "electrical", Description: "200A panel upgrade", Unit: "EA", BaseUnitCost: 2400, ApplicableRoomTypes: []string{"electrical_panel", "basement", "utility"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-019", RepairCode: "ELEC-OUTLET-REPLACE", Category: "electrical", Description: "Replace outlet/switch devices", Unit: "EA", BaseUnitCost: 28, ApplicableRoomTypes: []string{"kitchen", "bathroom", "bedroom", "living_room", "dining_room", "office"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-020", RepairCode: "PLUMB-WATER-HEATER-40G", Category: "plumbing", Description: "40 gallon gas water heater", Unit: "EA", BaseUnitCost: 1450, ApplicableRoomTypes: []string{"water_heater", "basement", "utility"}, RehabLevels: []string{"cosmetic", "moderate", "full_gut"}},
	{ID: "bc-021", RepairCode: "HVAC-FURNACE-GAS", Category: "hvac", Description: "Gas furnace replacement", Unit: "EA", BaseUnitCost: 4200, ApplicableRoomTypes: []string{"hvac", "basement", "utility"}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-022", RepairCode: "GEN-DUMPSTER-30YD", Category: "general", Description: "30 yard dumpster rental", Unit: "EA", BaseUnitCost: 525, ApplicableRoomTypes: []string{}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-023", RepairCode: "GEN-PERMITS", Category: "general", Description: "Municipal permits allowance", Unit: "LS", BaseUnitCost: 850, ApplicableRoomTypes: []string{}, RehabLevels: []string{"moderate", "full_gut"}},
	{ID: "bc-024", RepairCode: "STRUCT-SUBFLOOR-REPAIR", Category: "structure", Description: "Subfloor sheathing repair", Unit: "SF", BaseUnitCost: 11.50, ApplicableRoomTypes: []string{"kitchen", "bathroom", "laundry"}, RehabLevels: []string{"moderate", "full_gut"}},
}

var seedLocationFactors = []estimate.LocationFactor{
	{ZipPrefix: "100", City: "New York", State: "NY", MaterialFactor: 1.18, LaborFactor: 1.52, CombinedFactor: 1.35},
	{ZipPrefix: "606", City: "Chicago", State: "IL", MaterialFactor: 1.05, LaborFactor: 1.28, CombinedFactor: 1.16},
	{ZipPrefix: "750", City: "Dallas", State: "TX", MaterialFactor: 0.98, LaborFactor: 0.94, CombinedFactor: 0.96},
	{ZipPrefix: "441", City: "Cleveland", State: "OH", MaterialFactor: 0.97, LaborFactor: 0.99, CombinedFactor: 0.98},
	{ZipPrefix: "941", City: "San Francisco", State: "CA", MaterialFactor: 1.22, LaborFactor: 1.61, CombinedFactor: 1.42},
	{ZipPrefix: "303", City: "Atlanta", State: "GA", MaterialFactor: 0.99, LaborFactor: 0.92, CombinedFactor: 0.95},
}
