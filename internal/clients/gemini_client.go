package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spacesedan/sentigen/internal/models"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, cfg ProviderConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[GeminiClient] Missing GEMINI_API_KEY in environment variables")
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	slog.Info("[GeminiClient] Gemini client initialized", slog.Duration("timeout", cfg.Timeout))
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, model string, p models.EngineParams) ([]string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.MaxLength),
		CandidateCount:  int32(p.NumOutputs),
	}
	if p.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(p.Temperature))
	}
	if p.TopP > 0 {
		config.TopP = genai.Ptr(float32(p.TopP))
	}
	if p.TopK != nil {
		config.TopK = genai.Ptr(float32(*p.TopK))
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(p.Instruction), config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	outputs := make([]string, 0, len(resp.Candidates))
	for _, candidate := range resp.Candidates {
		var text strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				text.WriteString(part.Text)
			}
		}
		outputs = append(outputs, text.String())
	}
	return outputs, nil
}
