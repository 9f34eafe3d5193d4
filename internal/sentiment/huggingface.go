package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/sentigen/internal/models"
)

type classificationClient interface {
	Classify(ctx context.Context, model, text string) ([]models.ClassificationScore, error)
}

// RemoteClassifier runs a hosted text-classification model.
type RemoteClassifier struct {
	client classificationClient
	model  string
}

func NewRemoteClassifier(client classificationClient, model string) *RemoteClassifier {
	return &RemoteClassifier{client: client, model: model}
}

func (r *RemoteClassifier) Classify(ctx context.Context, text string) (string, float64, error) {
	scores, err := r.client.Classify(ctx, r.model, text)
	if err != nil {
		return "", 0, fmt.Errorf("classify with %s: %w", r.model, err)
	}

	best, ok := topScore(scores)
	if !ok {
		return "", 0, ErrEmptyClassification
	}
	return best.Label, best.Score, nil
}

func topScore(scores []models.ClassificationScore) (models.ClassificationScore, bool) {
	if len(scores) == 0 {
		return models.ClassificationScore{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best, true
}
