package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/sentigen/config"
	"github.com/spacesedan/sentigen/internal/clients"
	"github.com/spacesedan/sentigen/internal/models"
)

var ErrUnknownProvider = errors.New("unknown model provider")

const (
	ProviderHuggingFace = "hf"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
)

// Presets are the short names offered to users in place of full model ids.
var Presets = map[string]string{
	"light":  "gpt2",
	"medium": "openai-community/gpt2-medium",
	"large":  "openai-community/gpt2-large",
}

// Engine produces raw candidates for an instruction.
type Engine interface {
	Generate(ctx context.Context, params models.EngineParams) ([]string, error)
}

// EngineFactory builds the engine for a model id.
type EngineFactory func(ctx context.Context, modelID string) (Engine, error)

type textGenerator interface {
	Generate(ctx context.Context, model string, params models.EngineParams) ([]string, error)
}

// modelEngine binds a provider client to one model.
type modelEngine struct {
	model  string
	client textGenerator
}

func (e *modelEngine) Generate(ctx context.Context, params models.EngineParams) ([]string, error) {
	return e.client.Generate(ctx, e.model, params)
}

// ResolveModel expands presets and leaves anything else untouched.
func ResolveModel(name string) string {
	name = strings.TrimSpace(name)
	if id, ok := Presets[strings.ToLower(name)]; ok {
		return id
	}
	return name
}

// ParseModelID splits "provider:model". Ids without a known provider prefix
// are Hugging Face model ids.
func ParseModelID(modelID string) (provider, model string, err error) {
	prefix, rest, found := strings.Cut(modelID, ":")
	if !found {
		return ProviderHuggingFace, modelID, nil
	}

	switch prefix {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		if rest == "" {
			return "", "", fmt.Errorf("empty model name in %q", modelID)
		}
		return prefix, rest, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownProvider, prefix)
	}
}

// NewEngineFactory builds engines backed by the provider clients configured
// in settings.
func NewEngineFactory(settings config.Settings) EngineFactory {
	timeout := clients.RequestTimeout(settings.AppEnv)

	return func(ctx context.Context, modelID string) (Engine, error) {
		provider, model, err := ParseModelID(modelID)
		if err != nil {
			return nil, err
		}

		var client textGenerator
		switch provider {
		case ProviderOpenAI:
			client, err = clients.NewOpenAIClient(clients.ProviderConfig{
				APIKey:  settings.OpenAIAPIKey,
				BaseURL: settings.OpenAIBaseURL,
				Timeout: timeout,
			})
		case ProviderAnthropic:
			client, err = clients.NewAnthropicClient(clients.ProviderConfig{
				APIKey:  settings.AnthropicAPIKey,
				BaseURL: settings.AnthropicBaseURL,
				Timeout: timeout,
			})
		case ProviderGemini:
			client, err = clients.NewGeminiClient(ctx, clients.ProviderConfig{
				APIKey:  settings.GeminiAPIKey,
				BaseURL: settings.GeminiBaseURL,
				Timeout: timeout,
			})
		default:
			client = clients.NewHuggingFaceClient(clients.HuggingFaceConfig{
				BaseURL: settings.HFInferenceURL,
				Token:   settings.HFAPIToken,
				Timeout: timeout,
			})
		}
		if err != nil {
			return nil, err
		}

		return &modelEngine{model: model, client: client}, nil
	}
}
