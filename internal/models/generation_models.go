package models

// GenerationRequest is the full set of inputs for one generation call.
// TopK nil means no top-k restriction.
type GenerationRequest struct {
	Prompt      string    `json:"prompt"`
	Sentiment   Sentiment `json:"sentiment"`
	ModelID     string    `json:"model_id"`
	MaxLength   int       `json:"max_length"`
	Temperature float64   `json:"temperature"`
	TopK        *int      `json:"top_k,omitempty"`
	TopP        float64   `json:"top_p"`
	NumOutputs  int       `json:"num_outputs"`
	Strict      bool      `json:"strict"`
}

type GenerationResult struct {
	Sentiment  Sentiment `json:"sentiment"`
	ModelID    string    `json:"model_id"`
	Paragraphs []string  `json:"paragraphs"`
}

// EngineParams is what a generation engine receives after the instruction
// has been composed.
type EngineParams struct {
	Instruction string
	MaxLength   int
	Temperature float64
	TopK        *int
	TopP        float64
	NumOutputs  int
	DoSample    bool
}

type ToneCheck struct {
	Paragraph  string    `json:"paragraph"`
	Label      Sentiment `json:"label"`
	Confidence float64   `json:"confidence"`
	Matches    bool      `json:"matches"`
}
