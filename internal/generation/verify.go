package generation

import (
	"context"
	"fmt"

	"github.com/spacesedan/sentigen/internal/models"
)

type toneDetector interface {
	Detect(ctx context.Context, text string) (models.SentimentResult, error)
}

// Verifier re-classifies generated paragraphs. Its report is advisory:
// tone matching is requested through the instruction, never enforced.
type Verifier struct {
	detector toneDetector
}

func NewVerifier(detector toneDetector) *Verifier {
	return &Verifier{detector: detector}
}

func (v *Verifier) Verify(ctx context.Context, paragraphs []string, want models.Sentiment) ([]models.ToneCheck, error) {
	want, _ = models.ParseSentiment(string(want))

	checks := make([]models.ToneCheck, 0, len(paragraphs))
	for i, p := range paragraphs {
		res, err := v.detector.Detect(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("verify output %d: %w", i+1, err)
		}
		checks = append(checks, models.ToneCheck{
			Paragraph:  p,
			Label:      res.Label,
			Confidence: res.Confidence,
			Matches:    res.Label == want,
		})
	}
	return checks, nil
}
