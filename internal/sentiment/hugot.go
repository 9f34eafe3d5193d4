package sentiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/sentigen/internal/models"
)

const hugotPipelineName = "sentimentPipeline"

// HugotClassifier runs an ONNX text-classification model in process. The
// model directory must already exist; nothing is downloaded here.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotClassifier(modelPath string) (*HugotClassifier, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		slog.Error("[HugotClassifier] Failed to initialize Hugot session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      hugotPipelineName,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		slog.Error("[HugotClassifier] Failed to initialize classification pipeline", slog.String("error", err.Error()))
		if destroyErr := session.Destroy(); destroyErr != nil {
			slog.Warn("[HugotClassifier] Failed to destroy session", slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize hugot pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Using local model", slog.String("path", modelPath))
	return &HugotClassifier{session: session, pipeline: pipeline}, nil
}

func (h *HugotClassifier) Classify(_ context.Context, text string) (string, float64, error) {
	output, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return "", 0, fmt.Errorf("hugot classification failed: %w", err)
	}
	if len(output.ClassificationOutputs) == 0 {
		return "", 0, ErrEmptyClassification
	}

	scores := make([]models.ClassificationScore, 0, len(output.ClassificationOutputs[0]))
	for _, o := range output.ClassificationOutputs[0] {
		scores = append(scores, models.ClassificationScore{Label: o.Label, Score: float64(o.Score)})
	}

	best, ok := topScore(scores)
	if !ok {
		return "", 0, ErrEmptyClassification
	}
	return best.Label, best.Score, nil
}

func (h *HugotClassifier) Close() error {
	return h.session.Destroy()
}
