package analysis

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a construction estimator and pins the
// exact JSON schema every adapter expects back.
const SystemPrompt = `You are an expert residential construction estimator and home inspector with 20+ years of experience evaluating properties for renovation and rehab projects. You specialize in analyzing property photos to identify:

1. Structural issues (foundation cracks, framing problems, water damage)
2. Surface condition (paint, siding, flooring, countertops, cabinets)
3. Systems condition (electrical, plumbing, HVAC - from visible indicators)
4. Material identification (what type of flooring, cabinets, countertops, roofing)
5. Approximate quantities (estimating square footage, linear feet from photos)
6. Safety concerns (mold, asbestos indicators, electrical hazards)

IMPORTANT: You must respond with valid JSON matching this exact schema:

{
  "narrativeSummary": "A 2-3 sentence natural language summary of what you observe, written as if speaking directly to a real estate investor.",
  "observations": [
    {
      "category": "string (e.g., 'flooring', 'cabinets', 'walls', 'ceiling', 'plumbing', 'electrical', 'structure', 'appliances', 'windows', 'doors', 'siding', 'roof', 'foundation')",
      "description": "Detailed observation in plain language",
      "severity": "info | minor | moderate | major | critical",
      "confidence": 0.0-1.0
    }
  ],
  "defects": [
    {
      "type": "string (e.g., 'water_damage', 'crack', 'rot', 'mold', 'rust', 'peeling', 'sagging', 'missing', 'outdated', 'safety_hazard')",
      "location": "Where in the photo this was observed",
      "severity": "minor | moderate | major | critical",
      "description": "What the issue is and why it matters"
    }
  ],
  "conditionScore": 1-10,
  "followUpQuestions": [
    {
      "question": "A specific question to ask the person on-site",
      "context": "Why this question matters for the estimate",
      "responseType": "text | yes_no | multiple_choice | numeric",
      "options": ["only if responseType is multiple_choice"],
      "priority": 1-5
    }
  ],
  "suggestedRepairs": [
    {
      "repairCode": "Use these codes: EXT-SIDING-VINYL, EXT-SIDING-PAINT, EXT-ROOF-SHINGLE-ARCH, EXT-GUTTER-SEAMLESS, EXT-FNDTN-CRACK-REPAIR, KIT-CAB-REPLACE-SHAKER, KIT-CAB-PAINT, KIT-COUNT-QUARTZ, KIT-COUNT-LAMINATE, KIT-APPL-SS-PACKAGE, KIT-SINK-UNDERMOUNT, KIT-BACKSPLASH-SUBWAY, BATH-VANITY-36, BATH-VANITY-60, BATH-TOILET-STANDARD, BATH-TUB-SURROUND, BATH-TILE-FLOOR, FLR-LVP, FLR-CARPET, FLR-HARDWOOD-REFINISH, PAINT-INT-WALLS, PAINT-INT-TRIM, ELEC-PANEL-200A, ELEC-OUTLET-REPLACE, ELEC-LIGHT-RECESSED, PLUMB-WATER-HEATER-40G, HVAC-FURNACE-GAS, GEN-DUMPSTER-30YD, GEN-PERMITS, STRUCT-SUBFLOOR-REPAIR, or create a descriptive code if none match",
      "description": "What repair is needed",
      "estimatedQuantity": 0,
      "unit": "SF | LF | EA | LS | SQ | Set",
      "confidence": 0.0-1.0,
      "reasoning": "Why this repair is recommended based on what you see"
    }
  ]
}

Guidelines:
- Be specific and actionable. Investors need real numbers, not vague assessments.
- When estimating quantities, explain your reasoning (e.g., "Based on the visible wall length of approximately 12 feet...")
- Flag items that need further investigation with follow-up questions
- Consider the property's age when making assessments (older homes = different expectations)
- For conditionScore: 1-2 = needs full replacement, 3-4 = major issues, 5-6 = functional but dated, 7-8 = good condition with minor updates, 9-10 = like new
- Always err on the side of identifying potential issues. It's better to flag something that turns out to be fine than to miss a real problem.
- Do NOT include markdown formatting, code blocks, or any text outside the JSON. Return ONLY the JSON object.`

// roomPrompts holds the inspection checklist per room type. Room types
// without an entry fall back to defaultRoomPrompt.
var roomPrompts = map[RoomType]string{
	RoomExteriorFront: `Analyze the front exterior of this residential property. Focus on:
- Siding/exterior material condition (type, damage, paint peeling, rot)
- Front porch/steps condition and safety
- Windows visible from this angle (type, condition, seals)
- Front door condition
- Landscaping state and curb appeal
- Visible gutters and downspouts
- Any structural concerns visible from the front`,

	RoomExteriorRoof: `Analyze the roof of this residential property. Focus on:
- Shingle/roofing material type and condition
- Missing, curling, or damaged shingles
- Ridge line straightness (sagging = structural issue)
- Flashing condition around penetrations
- Gutter condition and attachment
- Any visible moss, algae, or debris
- Estimated remaining roof life based on what you see`,

	RoomExteriorFoundation: `Analyze the foundation of this property. Focus on:
- Visible cracks (horizontal cracks are more concerning than vertical)
- Efflorescence (white mineral deposits indicating water penetration)
- Water staining or tide marks
- Foundation material type (poured concrete, block, stone)
- Grade of soil relative to foundation (soil should slope away)
- Any visible repairs or patches
- Exposed rebar or deterioration`,

	RoomKitchen: `Analyze this kitchen. Focus on:
- Cabinet style, material, condition (doors closing properly? hardware condition?)
- Countertop material and condition (chips, burns, stains, seams)
- Flooring type and condition
- Appliances visible (brand, age estimate, condition, stainless vs not)
- Sink and faucet condition
- Backsplash presence and condition
- Lighting type and adequacy
- Any water damage (especially under sink area, near dishwasher)
- General layout functionality
- Ceiling condition
- Wall condition and paint`,

	RoomBathroom: `Analyze this bathroom. Focus on:
- Vanity type, size, and condition
- Toilet condition and style (round vs elongated, height)
- Tub/shower type (insert, tile surround, walk-in)
- Tile condition (grout, caulk, cracking, mold/mildew)
- Flooring type and condition (look for soft spots near wet areas)
- Fixture style and condition (faucet, showerhead)
- Mirror condition
- Ventilation (fan present?)
- Signs of water damage (floor near tub, ceiling stains, wall bubbling)
- Lighting adequacy`,

	RoomBedroom: `Analyze this bedroom. Focus on:
- Flooring type and condition
- Wall condition (cracks, nail pops, water stains)
- Ceiling condition (texture type, stains, cracks)
- Window condition and style
- Closet doors visible
- Electrical outlets visible (quantity, style, grounded?)
- Lighting fixtures
- Door and trim condition
- Overall room size estimate from the photo`,

	RoomLivingRoom: `Analyze this living room/family room. Focus on:
- Flooring type and condition
- Wall condition
- Ceiling condition (popcorn ceiling? stains?)
- Windows (type, condition, number visible)
- Fireplace if present (type, condition)
- Built-in features
- Lighting
- Trim and baseboards condition
- Overall room proportions`,

	RoomHVAC: `Analyze this HVAC system. Focus on:
- Equipment type (forced air furnace, heat pump, boiler, wall unit)
- Fuel type if identifiable (gas, electric, oil)
- Estimated age from visible condition and style
- Brand if visible
- Filter area condition
- Visible rust or corrosion
- Ductwork condition if visible
- Thermostat type (manual, programmable, smart)
- Any safety concerns`,

	RoomElectricalPanel: `Analyze this electrical panel. Focus on:
- Panel amperage (100A, 150A, 200A)
- Brand (Federal Pacific and Zinsco are safety concerns)
- Breaker types (standard, AFCI, GFCI)
- Panel condition (rust, overheating signs, double-tapped breakers)
- Labeling quality
- Available space for additional circuits
- Main disconnect present?
- Any visible code violations`,

	RoomWaterHeater: `Analyze this water heater. Focus on:
- Type (tank, tankless)
- Fuel type (gas, electric)
- Capacity (gallons) if visible
- Brand and model if visible
- Age indicators (manufacturing date, condition)
- Rust or corrosion
- T&P valve and discharge pipe present?
- Expansion tank present?
- Any signs of leaking`,
}

const defaultRoomPrompt = `Analyze this room/space in the property. Focus on:
- Flooring type and condition
- Wall condition
- Ceiling condition
- Windows and doors
- Fixtures and features
- Any damage or issues requiring repair
- Overall condition assessment`

// RoomPrompt returns the checklist for a room type. Total: unknown room
// types get the generic checklist.
func RoomPrompt(roomType RoomType) string {
	if p, ok := roomPrompts[roomType]; ok {
		return p
	}
	return defaultRoomPrompt
}

// RehabContext returns the framing paragraph for a rehab level. The three
// levels weight findings differently; full gut explicitly de-emphasizes
// cosmetic condition.
func RehabContext(level RehabLevel) string {
	switch level {
	case RehabCosmetic:
		return `This is a COSMETIC rehab. The investor plans to do surface-level updates only: paint, flooring, fixtures, hardware, light landscaping. Focus on what's visually outdated or damaged on the surface. Don't recommend structural or systems work unless there's a clear safety concern.`
	case RehabFullGut:
		return `This is a FULL GUT rehab. Everything is being taken down to studs. Focus on structural issues, systems condition (electrical, plumbing, HVAC), and any code compliance concerns. All finishes will be replaced, so don't focus on cosmetic condition - focus on what's behind the walls and the structural integrity.`
	default:
		return `This is a MODERATE rehab. The investor plans to update kitchens and bathrooms, replace flooring throughout, potentially update some systems. Identify both cosmetic issues and moderate functional problems. Recommend upgrades that would bring this to market-competitive condition.`
	}
}

// eraHint pairs a threshold year with the risk note that fires below it.
type eraHint struct {
	before int
	note   string
}

// Era thresholds are not mutually exclusive; every hint whose condition
// holds is appended.
var eraHints = []eraHint{
	{before: 1978, note: "- Potential lead paint"},
	{before: 1980, note: "- Potential asbestos in flooring, insulation, or popcorn ceilings"},
	{before: 1960, note: "- Possible knob-and-tube or aluminum wiring"},
	{before: 1970, note: "- Possible cast iron drain pipes nearing end of life"},
	{before: 1990, note: "- Original windows likely single-pane"},
}

const modernConstructionHint = "- Relatively modern construction, focus on maintenance issues"

// BuildAnalysisPrompt assembles the provider-agnostic instruction text.
// Pure: identical inputs always yield identical text, and it cannot fail.
func BuildAnalysisPrompt(roomType RoomType, level RehabLevel, yearBuilt int, previousContext []string) string {
	var b strings.Builder
	b.WriteString(RoomPrompt(roomType))
	b.WriteString("\n\n")
	b.WriteString(RehabContext(level))

	if yearBuilt > 0 {
		fmt.Fprintf(&b, "\n\nThis property was built in %d. Consider common issues for homes of this era:", yearBuilt)
		for _, hint := range eraHints {
			if yearBuilt < hint.before {
				b.WriteString("\n")
				b.WriteString(hint.note)
			}
		}
		if yearBuilt > 2000 {
			b.WriteString("\n")
			b.WriteString(modernConstructionHint)
		}
	}

	if len(previousContext) > 0 {
		b.WriteString("\n\nContext from other rooms already analyzed:\n")
		b.WriteString(strings.Join(previousContext, "\n"))
	}

	b.WriteString("\n\nRespond with ONLY the JSON object as specified in your system instructions. No other text.")
	return b.String()
}

// RenderFollowUpContext formats answered follow-up questions as an extra
// text block. Returns "" when there is nothing to render.
func RenderFollowUpContext(responses []UserResponse) string {
	if len(responses) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(responses))
	for _, r := range responses {
		pairs = append(pairs, "Q: "+r.QuestionText+"\nA: "+r.ResponseText)
	}
	return "\n\nThe user answered these follow-up questions about this room:\n" +
		strings.Join(pairs, "\n\n") +
		"\n\nPlease refine your analysis based on these answers."
}
