// Package sentiment maps free text onto a coarse sentiment label using a
// pluggable classification engine.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spacesedan/sentigen/internal/models"
)

const (
	DefaultNeutralThreshold = 0.55
	MaxInputRunes           = 512
)

var ErrEmptyClassification = errors.New("classifier returned no labels")

// Classifier returns the top raw label and its score for text.
type Classifier interface {
	Classify(ctx context.Context, text string) (label string, score float64, err error)
}

// ClassifierFactory builds the classification engine. It runs at most once
// per successful Detector lifetime.
type ClassifierFactory func(ctx context.Context) (Classifier, error)

type Detector struct {
	newClassifier ClassifierFactory
	threshold     float64

	mu         sync.Mutex
	classifier Classifier
}

type Option func(*Detector)

func WithNeutralThreshold(threshold float64) Option {
	return func(d *Detector) {
		d.threshold = threshold
	}
}

func NewDetector(factory ClassifierFactory, opts ...Option) *Detector {
	d := &Detector{
		newClassifier: factory,
		threshold:     DefaultNeutralThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies text. Blank input is neutral with full confidence and
// never touches the engine. Scores under the neutral threshold are reported
// as neutral with the raw score preserved.
func (d *Detector) Detect(ctx context.Context, text string) (models.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{Label: models.SentimentNeutral, Confidence: 1.0}, nil
	}

	classifier, err := d.engine(ctx)
	if err != nil {
		return models.SentimentResult{}, err
	}

	label, score, err := classifier.Classify(ctx, truncateRunes(text, MaxInputRunes))
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("sentiment classification failed: %w", err)
	}

	result := models.SentimentResult{
		Label:      models.Sentiment(strings.ToLower(label)),
		Confidence: score,
	}
	if score < d.threshold {
		result.Label = models.SentimentNeutral
	}

	slog.Debug("[Detector] Classified input",
		slog.String("raw_label", label),
		slog.String("label", string(result.Label)),
		slog.Float64("confidence", score))
	return result, nil
}

func (d *Detector) engine(ctx context.Context) (Classifier, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.classifier != nil {
		return d.classifier, nil
	}

	slog.Info("[Detector] Initializing classification engine")
	classifier, err := d.newClassifier(ctx)
	if err != nil {
		slog.Error("[Detector] Failed to initialize classification engine",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}
	d.classifier = classifier
	return classifier, nil
}

// Close releases the engine if it holds native resources.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	closer, ok := d.classifier.(io.Closer)
	d.classifier = nil
	if !ok {
		return nil
	}
	return closer.Close()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
