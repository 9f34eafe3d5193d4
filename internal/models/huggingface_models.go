package models

type ClassificationScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type ClassificationRequest struct {
	Inputs  string           `json:"inputs"`
	Options InferenceOptions `json:"options"`
}

// InferenceOptions.UseCache lets the API replay an earlier answer for the
// same inputs. Classification is deterministic and allows it; sampled
// generation does not.
type InferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type TextGenerationParameters struct {
	MaxNewTokens       int     `json:"max_new_tokens,omitempty"`
	Temperature        float64 `json:"temperature,omitempty"`
	TopK               *int    `json:"top_k,omitempty"`
	TopP               float64 `json:"top_p,omitempty"`
	DoSample           bool    `json:"do_sample"`
	NumReturnSequences int     `json:"num_return_sequences,omitempty"`
	ReturnFullText     bool    `json:"return_full_text"`
}

type TextGenerationRequest struct {
	Inputs     string                   `json:"inputs"`
	Parameters TextGenerationParameters `json:"parameters"`
	Options    InferenceOptions         `json:"options"`
}

type (
	TextGenerationBatchResponse []TextGenerationResponse
	TextGenerationResponse      struct {
		GeneratedText string `json:"generated_text"`
	}
)
