package estimate

import "time"

// ItemSource records where a repair line came from.
type ItemSource string

const (
	SourceAI       ItemSource = "ai"
	SourceUser     ItemSource = "user"
	SourceTemplate ItemSource = "template"
)

// BaseCost is a national-average unit price for one repair code.
type BaseCost struct {
	ID                  string   `json:"id"`
	RepairCode          string   `json:"repairCode"`
	Category            string   `json:"category"`
	Subcategory         string   `json:"subcategory,omitempty"`
	Description         string   `json:"description"`
	Unit                string   `json:"unit"`
	BaseUnitCost        float64  `json:"baseUnitCost"`
	MinCost             float64  `json:"minCost,omitempty"`
	MaxCost             float64  `json:"maxCost,omitempty"`
	TypicalQuantityHint string   `json:"typicalQuantityHint,omitempty"`
	ApplicableRoomTypes []string `json:"applicableRoomTypes"`
	RehabLevels         []string `json:"rehabLevels"`
}

// LocationFactor is the regional multiplier for a 3-digit zip prefix.
// CombinedFactor is the one applied to every adjustment.
type LocationFactor struct {
	ZipPrefix      string  `json:"zipPrefix"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state"`
	MaterialFactor float64 `json:"materialFactor"`
	LaborFactor    float64 `json:"laborFactor"`
	CombinedFactor float64 `json:"combinedFactor"`
}

// NeutralFactor is the documented fallback for zip prefixes with no
// regional data; missing data must never block an estimate.
func NeutralFactor(zipPrefix string) LocationFactor {
	return LocationFactor{
		ZipPrefix:      zipPrefix,
		MaterialFactor: 1.0,
		LaborFactor:    1.0,
		CombinedFactor: 1.0,
	}
}

// RepairItem is one estimate line. TotalCost is re-derived whenever
// quantity or unit cost change, never recomputed from stale inputs.
type RepairItem struct {
	ID          string     `json:"id"`
	RepairCode  string     `json:"repairCode"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit"`
	UnitCost    float64    `json:"unitCost"`
	TotalCost   float64    `json:"totalCost"`
	IsSelected  bool       `json:"isSelected"`
	Source      ItemSource `json:"source"`
	// NeedsPricing flags lines whose repair code missed the cost table so
	// the UI can surface them for manual correction.
	NeedsPricing bool      `json:"needsPricing,omitempty"`
	Confidence   float64   `json:"confidence,omitempty"`
	Reasoning    string    `json:"reasoning,omitempty"`
	SortOrder    int       `json:"sortOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AISuggested reports whether the line originated from an analysis.
func (i RepairItem) AISuggested() bool {
	return i.Source == SourceAI
}

// Totals is the rolled up estimate for a set of line items.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	ContingencyPct float64 `json:"contingencyPct"`
	ContingencyAmt float64 `json:"contingencyAmt"`
	Total          float64 `json:"total"`
}
