package metrics

// TokenUsage captures provider token counters for one analysis call.
// Providers report these differently (split input/output vs combined);
// adapters always fill TotalTokens with the sum.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}
