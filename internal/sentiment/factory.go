package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/sentigen/config"
	"github.com/spacesedan/sentigen/internal/clients"
)

// NewClassifierFactory selects the engine named by settings.SentimentEngine.
func NewClassifierFactory(settings config.Settings) ClassifierFactory {
	return func(ctx context.Context) (Classifier, error) {
		switch settings.SentimentEngine {
		case "vader":
			return NewVaderClassifier(), nil
		case "hugot":
			classifier, err := NewHugotClassifier(settings.HugotModelPath)
			if err != nil {
				return nil, err
			}
			return classifier, nil
		case "huggingface", "":
			client := clients.NewHuggingFaceClient(clients.HuggingFaceConfig{
				BaseURL: settings.HFInferenceURL,
				Token:   settings.HFAPIToken,
				Timeout: clients.RequestTimeout(settings.AppEnv),
			})
			return NewRemoteClassifier(client, settings.SentimentModel), nil
		default:
			return nil, fmt.Errorf("unknown sentiment engine %q", settings.SentimentEngine)
		}
	}
}
