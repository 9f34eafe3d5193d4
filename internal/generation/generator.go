// Package generation composes sentiment-directed instructions, runs them
// through a cached per-model engine and cleans the raw candidates.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/sentigen/internal/models"
)

const (
	DefaultMaxLength   = 120
	DefaultTemperature = 0.8
	DefaultTopP        = 0.95
	DefaultNumOutputs  = 1
)

var (
	ErrCandidateCount = errors.New("engine returned an unexpected number of candidates")
	ErrInvalidRequest = errors.New("invalid generation request")
)

type Generator struct {
	engines      *engineCache
	templates    Templates
	cleaner      Cleaner
	defaultModel string
}

type Option func(*Generator)

func WithTemplates(t Templates) Option {
	return func(g *Generator) {
		g.templates = t
	}
}

func WithMarkers(markers []string) Option {
	return func(g *Generator) {
		g.cleaner = Cleaner{Markers: markers}
	}
}

func WithDefaultModel(modelID string) Option {
	return func(g *Generator) {
		g.defaultModel = modelID
	}
}

func NewGenerator(factory EngineFactory, opts ...Option) *Generator {
	g := &Generator{
		engines:      newEngineCache(factory),
		templates:    DefaultTemplates,
		cleaner:      Cleaner{Markers: DefaultMarkers},
		defaultModel: Presets["light"],
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns req.NumOutputs cleaned paragraphs in engine order. The
// prompt is expected to be non-blank; callers reject blank input first.
// Zero MaxLength or NumOutputs takes the package default; negative values
// fail with ErrInvalidRequest.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) ([]string, error) {
	if req.NumOutputs < 0 {
		return nil, fmt.Errorf("%w: num_outputs %d is negative", ErrInvalidRequest, req.NumOutputs)
	}
	if req.MaxLength < 0 {
		return nil, fmt.Errorf("%w: max_length %d is negative", ErrInvalidRequest, req.MaxLength)
	}
	req = g.withDefaults(req)

	sentiment, ok := models.ParseSentiment(string(req.Sentiment))
	if !ok {
		slog.Debug("[Generator] Unrecognized sentiment, using neutral",
			slog.String("sentiment", string(req.Sentiment)))
	}

	engine, err := g.engines.get(ctx, req.ModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", req.ModelID, err)
	}

	params := models.EngineParams{
		Instruction: g.templates.Build(req.Prompt, sentiment, req.Strict),
		MaxLength:   req.MaxLength,
		Temperature: req.Temperature,
		TopK:        normalizeTopK(req.TopK),
		TopP:        req.TopP,
		NumOutputs:  req.NumOutputs,
		DoSample:    true,
	}

	slog.Info("[Generator] Generating text",
		slog.String("model", req.ModelID),
		slog.String("sentiment", string(sentiment)),
		slog.Bool("strict", req.Strict),
		slog.Int("num_outputs", req.NumOutputs))
	start := time.Now()

	raw, err := engine.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("generation with %s failed: %w", req.ModelID, err)
	}
	if len(raw) != req.NumOutputs {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCandidateCount, len(raw), req.NumOutputs)
	}

	outputs := make([]string, len(raw))
	for i, r := range raw {
		outputs[i] = g.cleaner.CleanEcho(r, params.Instruction, req.MaxLength)
	}

	slog.Info("[Generator] Generation complete",
		slog.String("model", req.ModelID),
		slog.Duration("elapsed", time.Since(start)))
	return outputs, nil
}

// LoadedModels lists the model ids with a cached engine.
func (g *Generator) LoadedModels() []string {
	return g.engines.models()
}

func (g *Generator) withDefaults(req models.GenerationRequest) models.GenerationRequest {
	if req.ModelID == "" {
		req.ModelID = g.defaultModel
	}
	req.ModelID = ResolveModel(req.ModelID)
	if req.MaxLength == 0 {
		req.MaxLength = DefaultMaxLength
	}
	if req.NumOutputs == 0 {
		req.NumOutputs = DefaultNumOutputs
	}
	return req
}

// normalizeTopK maps 0 or negative top_k to "no restriction".
func normalizeTopK(topK *int) *int {
	if topK == nil || *topK <= 0 {
		return nil
	}
	k := *topK
	return &k
}
