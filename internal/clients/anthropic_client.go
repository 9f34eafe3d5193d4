package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spacesedan/sentigen/internal/models"
)

type AnthropicClient struct {
	client anthropic.Client
}

func NewAnthropicClient(cfg ProviderConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[AnthropicClient] Missing ANTHROPIC_API_KEY in environment variables")
		return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	slog.Info("[AnthropicClient] Anthropic client initialized", slog.Duration("timeout", cfg.Timeout))
	return &AnthropicClient{client: client}, nil
}

// Generate issues one Messages call per requested output; the API has no
// candidate count.
func (c *AnthropicClient) Generate(ctx context.Context, model string, p models.EngineParams) ([]string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(p.MaxLength),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.Instruction)),
		},
	}

	// Claude rejects temperature and top_p together.
	if p.Temperature > 0 {
		params.Temperature = anthropic.Float(p.Temperature)
	} else if p.TopP > 0 {
		params.TopP = anthropic.Float(p.TopP)
	}
	if p.TopK != nil {
		params.TopK = anthropic.Int(int64(*p.TopK))
	}

	outputs := make([]string, 0, p.NumOutputs)
	for i := 0; i < p.NumOutputs; i++ {
		resp, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("anthropic api error: %w", err)
		}

		var text strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				text.WriteString(block.Text)
			}
		}
		outputs = append(outputs, text.String())
	}

	return outputs, nil
}
