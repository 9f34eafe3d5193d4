package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/sentigen/internal/models"
)

var ErrMissingAPIKey = errors.New("missing API key")

// ProviderConfig configures the hosted LLM clients. BaseURL overrides the
// SDK's default endpoint when set.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type OpenAIClient struct {
	Client *openai.Client
}

func NewOpenAIClient(cfg ProviderConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.String("base_url", config.BaseURL),
		slog.Duration("timeout", cfg.Timeout))
	return &OpenAIClient{Client: openai.NewClientWithConfig(config)}, nil
}

// Generate returns p.NumOutputs candidates. Instruct models go through the
// legacy completion endpoint so the instruction is continued verbatim;
// everything else uses chat completion. OpenAI has no top_k parameter.
func (c *OpenAIClient) Generate(ctx context.Context, model string, p models.EngineParams) ([]string, error) {
	if p.TopK != nil {
		slog.Debug("[OpenAIClient] top_k is not supported, ignoring", slog.Int("top_k", *p.TopK))
	}

	if isCompletionModel(model) {
		return c.complete(ctx, model, p)
	}
	return c.chat(ctx, model, p)
}

func (c *OpenAIClient) complete(ctx context.Context, model string, p models.EngineParams) ([]string, error) {
	resp, err := c.Client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       model,
		Prompt:      p.Instruction,
		MaxTokens:   p.MaxLength,
		Temperature: float32(p.Temperature),
		TopP:        float32(p.TopP),
		N:           p.NumOutputs,
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion error: %w", err)
	}

	outputs := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		outputs = append(outputs, choice.Text)
	}
	return outputs, nil
}

func (c *OpenAIClient) chat(ctx context.Context, model string, p models.EngineParams) ([]string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: p.Instruction},
		},
		Temperature: float32(p.Temperature),
		TopP:        float32(p.TopP),
		N:           p.NumOutputs,
	}
	if isMaxCompletionTokensModel(model) {
		req.MaxCompletionTokens = p.MaxLength
	} else {
		req.MaxTokens = p.MaxLength
	}

	resp, err := c.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion error: %w", err)
	}

	outputs := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		outputs = append(outputs, choice.Message.Content)
	}
	return outputs, nil
}

func isCompletionModel(model string) bool {
	return strings.HasSuffix(model, "-instruct") ||
		strings.HasPrefix(model, "davinci") ||
		strings.HasPrefix(model, "babbage")
}

func isMaxCompletionTokensModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
