package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

// defaultConditionScore is used when a provider omits the score entirely.
const defaultConditionScore = 5

var fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// Assessment is the parsed body of a provider reply before the adapter adds
// provenance and telemetry.
type Assessment struct {
	Observations      []Observation
	Defects           []Defect
	ConditionScore    int
	FollowUpQuestions []FollowUpQuestion
	SuggestedRepairs  []SuggestedRepair
	NarrativeSummary  string
}

// assessmentPayload mirrors the JSON schema the system prompt demands.
// ConditionScore is a pointer so an absent key can fall back to the neutral
// default instead of zero.
type assessmentPayload struct {
	NarrativeSummary  string             `json:"narrativeSummary"`
	Observations      []Observation      `json:"observations"`
	Defects           []Defect           `json:"defects"`
	ConditionScore    *int               `json:"conditionScore"`
	FollowUpQuestions []FollowUpQuestion `json:"followUpQuestions"`
	SuggestedRepairs  []SuggestedRepair  `json:"suggestedRepairs"`
}

// ParseAssessment decodes the model's text output. It first tries the raw
// text as JSON, then the contents of a fenced code block. Missing keys
// default to empty values; only text that yields no JSON at all is an error.
func ParseAssessment(provider ProviderName, text string) (Assessment, error) {
	var payload assessmentPayload

	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		match := fencedBlockRe.FindStringSubmatch(trimmed)
		if match == nil {
			return Assessment{}, &MalformedResponseError{Provider: provider, Reason: "no JSON object or fenced block found"}
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &payload); err != nil {
			return Assessment{}, &MalformedResponseError{Provider: provider, Reason: err.Error()}
		}
	}

	out := Assessment{
		Observations:      payload.Observations,
		Defects:           payload.Defects,
		ConditionScore:    defaultConditionScore,
		FollowUpQuestions: payload.FollowUpQuestions,
		SuggestedRepairs:  payload.SuggestedRepairs,
		NarrativeSummary:  payload.NarrativeSummary,
	}
	if payload.ConditionScore != nil {
		out.ConditionScore = *payload.ConditionScore
	}
	if out.Observations == nil {
		out.Observations = []Observation{}
	}
	if out.Defects == nil {
		out.Defects = []Defect{}
	}
	if out.FollowUpQuestions == nil {
		out.FollowUpQuestions = []FollowUpQuestion{}
	}
	if out.SuggestedRepairs == nil {
		out.SuggestedRepairs = []SuggestedRepair{}
	}
	return out, nil
}
