package ai

// CompletionRequest describes a single call to the language model.
type CompletionRequest struct {
	// System is the system instruction, may be empty.
	System string

	// Prompt is the user-role content of the request.
	Prompt string

	// Temperature controls sampling randomness. Zero means deterministic;
	// callers wanting the provider default should set DefaultTemperature.
	Temperature float64

	// MaxTokens caps the completion length. Zero means the provider default.
	MaxTokens int
}

// Usage reports the token consumption of one completion call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Total returns prompt plus completion tokens.
func (u Usage) Total() int64 {
	return u.PromptTokens + u.CompletionTokens
}

// Completion is the result of one language model call.
type Completion struct {
	Text  string
	Usage Usage
}
