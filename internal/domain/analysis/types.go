package analysis

// ProviderName identifies a registered vision provider.
type ProviderName string

const (
	ProviderClaude ProviderName = "claude"
	ProviderOpenAI ProviderName = "openai"
)

// RehabLevel is the depth of renovation the investor plans.
type RehabLevel string

const (
	RehabCosmetic RehabLevel = "cosmetic"
	RehabModerate RehabLevel = "moderate"
	RehabFullGut  RehabLevel = "full_gut"
)

// RoomType enumerates the spaces a walkthrough captures.
type RoomType string

const (
	RoomExteriorFront      RoomType = "exterior_front"
	RoomExteriorRear       RoomType = "exterior_rear"
	RoomExteriorLeft       RoomType = "exterior_left"
	RoomExteriorRight      RoomType = "exterior_right"
	RoomExteriorRoof       RoomType = "exterior_roof"
	RoomExteriorFoundation RoomType = "exterior_foundation"
	RoomExteriorDriveway   RoomType = "exterior_driveway"
	RoomExteriorGarage     RoomType = "exterior_garage"
	RoomKitchen            RoomType = "kitchen"
	RoomBathroom           RoomType = "bathroom"
	RoomBedroom            RoomType = "bedroom"
	RoomLivingRoom         RoomType = "living_room"
	RoomDiningRoom         RoomType = "dining_room"
	RoomLaundry            RoomType = "laundry"
	RoomBasement           RoomType = "basement"
	RoomAttic              RoomType = "attic"
	RoomHallway            RoomType = "hallway"
	RoomOffice             RoomType = "office"
	RoomGarageInterior     RoomType = "garage_interior"
	RoomUtility            RoomType = "utility"
	RoomHVAC               RoomType = "hvac"
	RoomElectricalPanel    RoomType = "electrical_panel"
	RoomWaterHeater        RoomType = "water_heater"
	RoomOther              RoomType = "other"
)

// PhotoType tags the role a photo plays in the capture set.
type PhotoType string

const (
	PhotoStandard    PhotoType = "standard"
	PhotoWideShot    PhotoType = "wide_shot"
	PhotoDetail      PhotoType = "detail"
	PhotoProblemArea PhotoType = "problem_area"
	PhotoCeiling     PhotoType = "ceiling"
	PhotoFloor       PhotoType = "floor"
)

// Severity is the five level ordinal used for observations.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// ResponseType constrains how a follow-up question is answered.
type ResponseType string

const (
	ResponseText           ResponseType = "text"
	ResponseYesNo          ResponseType = "yes_no"
	ResponseMultipleChoice ResponseType = "multiple_choice"
	ResponseNumeric        ResponseType = "numeric"
)

// PhotoInput is a single pre-encoded image ready to ship to a provider.
type PhotoInput struct {
	Base64    string    `json:"base64"`
	MimeType  string    `json:"mimeType"`
	PhotoType PhotoType `json:"photoType"`
}

// PropertyContext carries the property level metadata a prompt needs.
type PropertyContext struct {
	YearBuilt     int    `json:"yearBuilt,omitempty"`
	SquareFootage int    `json:"squareFootage,omitempty"`
	ZipCode       string `json:"zipCode"`
}

// UserResponse pairs a previously asked follow-up question with its answer.
type UserResponse struct {
	QuestionIndex int    `json:"questionIndex"`
	QuestionText  string `json:"questionText"`
	ResponseText  string `json:"responseText"`
}

// Request bundles everything needed to analyze one room.
type Request struct {
	Photos           []PhotoInput    `json:"photos"`
	RoomType         RoomType        `json:"roomType"`
	RehabLevel       RehabLevel      `json:"rehabLevel"`
	PropertyContext  PropertyContext `json:"propertyContext"`
	PreviousAnalyses []string        `json:"previousAnalyses,omitempty"`
	UserResponses    []UserResponse  `json:"userResponses,omitempty"`
}

// Observation is a single finding from the photos, actionable or not.
type Observation struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Confidence  float64  `json:"confidence"`
}

// Defect is an actionable problem; severity never goes below minor.
type Defect struct {
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// FollowUpQuestion is something the model could not resolve from photos alone.
type FollowUpQuestion struct {
	Question     string       `json:"question"`
	Context      string       `json:"context"`
	ResponseType ResponseType `json:"responseType"`
	Options      []string     `json:"options,omitempty"`
	Priority     int          `json:"priority"`
}

// SuggestedRepair references the cost table by repair code. The code is a
// hint, not a guarantee: it may not exist in the table.
type SuggestedRepair struct {
	RepairCode        string  `json:"repairCode"`
	Description       string  `json:"description"`
	EstimatedQuantity float64 `json:"estimatedQuantity"`
	Unit              string  `json:"unit"`
	Confidence        float64 `json:"confidence"`
	Reasoning         string  `json:"reasoning"`
}

// Result is the normalized assessment returned by any provider.
type Result struct {
	ID                string             `json:"id"`
	Provider          ProviderName       `json:"provider"`
	ModelVersion      string             `json:"modelVersion"`
	Observations      []Observation      `json:"observations"`
	Defects           []Defect           `json:"defects"`
	ConditionScore    int                `json:"conditionScore"`
	FollowUpQuestions []FollowUpQuestion `json:"followUpQuestions"`
	SuggestedRepairs  []SuggestedRepair  `json:"suggestedRepairs"`
	NarrativeSummary  string             `json:"narrativeSummary"`
	// RawResponse is the untouched provider payload, kept for audit only.
	RawResponse []byte `json:"rawResponse,omitempty"`
	TokensUsed  int    `json:"tokensUsed"`
	LatencyMs   int64  `json:"latencyMs"`
}

// RoomTypeLabels maps room types to display labels for downstream consumers.
var RoomTypeLabels = map[RoomType]string{
	RoomExteriorFront:      "Front Exterior",
	RoomExteriorRear:       "Rear Exterior",
	RoomExteriorLeft:       "Left Side",
	RoomExteriorRight:      "Right Side",
	RoomExteriorRoof:       "Roof",
	RoomExteriorFoundation: "Foundation",
	RoomExteriorDriveway:   "Driveway/Walkways",
	RoomExteriorGarage:     "Garage (Exterior)",
	RoomKitchen:            "Kitchen",
	RoomBathroom:           "Bathroom",
	RoomBedroom:            "Bedroom",
	RoomLivingRoom:         "Living Room",
	RoomDiningRoom:         "Dining Room",
	RoomLaundry:            "Laundry",
	RoomBasement:           "Basement",
	RoomAttic:              "Attic",
	RoomHallway:            "Hallway",
	RoomOffice:             "Office",
	RoomGarageInterior:     "Garage (Interior)",
	RoomUtility:            "Utility Room",
	RoomHVAC:               "HVAC System",
	RoomElectricalPanel:    "Electrical Panel",
	RoomWaterHeater:        "Water Heater",
	RoomOther:              "Other",
}

// allowedMimeTypes is the fixed set of image encodings providers accept.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// AllowedMimeType reports whether the encoding can be sent to a provider.
func AllowedMimeType(mime string) bool {
	return allowedMimeTypes[mime]
}
