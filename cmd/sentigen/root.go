package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spacesedan/sentigen/config"
	"github.com/spacesedan/sentigen/internal/generation"
	"github.com/spacesedan/sentigen/internal/logging"
	"github.com/spacesedan/sentigen/internal/models"
	"github.com/spacesedan/sentigen/internal/sentiment"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type sentimentDetector interface {
	Detect(ctx context.Context, text string) (models.SentimentResult, error)
}

type textGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) ([]string, error)
}

type toneVerifier interface {
	Verify(ctx context.Context, paragraphs []string, want models.Sentiment) ([]models.ToneCheck, error)
}

// app carries the components shared by every subcommand.
type app struct {
	settings  config.Settings
	detector  sentimentDetector
	generator textGenerator
	verifier  toneVerifier
	close     func() error
}

func newApp(settings config.Settings) *app {
	detector := sentiment.NewDetector(
		sentiment.NewClassifierFactory(settings),
		sentiment.WithNeutralThreshold(settings.NeutralThreshold),
	)
	generator := generation.NewGenerator(
		generation.NewEngineFactory(settings),
		generation.WithMarkers(settings.Markers()),
		generation.WithDefaultModel(settings.DefaultModel),
	)

	return &app{
		settings:  settings,
		detector:  detector,
		generator: generator,
		verifier:  generation.NewVerifier(detector),
		close:     detector.Close,
	}
}

func newRootCmd() *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:   "sentigen",
		Short: "Detect the sentiment of a prompt and generate tone-matched paragraphs",
		Long: `sentigen classifies the sentiment of a prompt (or takes a manual override)
and asks a text-generation model for paragraphs written in that tone.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env := os.Getenv("APP_ENV")
			if env == "" {
				env = "dev"
			}
			config.LoadEnv(env)

			settings, err := config.Load(viper.New())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			logging.InitLogger(settings.LogLevel)

			a = newApp(settings)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil || a.close == nil {
				return nil
			}
			return a.close()
		},
	}

	getApp := func() *app { return a }
	root.AddCommand(
		newDetectCmd(getApp),
		newGenerateCmd(getApp),
		newHealthCmd(getApp),
	)
	return root
}
