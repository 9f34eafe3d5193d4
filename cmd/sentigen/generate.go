package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spacesedan/sentigen/internal/generation"
	"github.com/spacesedan/sentigen/internal/models"
	"github.com/spf13/cobra"
)

const sentimentAuto = "auto"

var errBlankPrompt = errors.New("please enter a prompt")

type generateOptions struct {
	prompt      string
	sentiment   string
	model       string
	maxLength   int
	temperature float64
	topK        int
	topP        float64
	numOutputs  int
	strict      bool
	verify      bool
	json        bool
}

type generateOutput struct {
	Detected models.SentimentResult  `json:"detected"`
	Result   models.GenerationResult `json:"result"`
	Checks   []models.ToneCheck      `json:"checks,omitempty"`
}

func newGenerateCmd(getApp func() *app) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate paragraphs matching the sentiment of a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if opts.model == "" {
				opts.model = a.settings.DefaultModel
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), a, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "prompt text")
	flags.StringVarP(&opts.sentiment, "sentiment", "s", sentimentAuto, "sentiment override (auto/positive/negative/neutral)")
	flags.StringVarP(&opts.model, "model", "m", "", "model id or preset (light/medium/large, openai:..., anthropic:..., gemini:...)")
	flags.IntVar(&opts.maxLength, "max-length", generation.DefaultMaxLength, "maximum generated tokens")
	flags.Float64Var(&opts.temperature, "temperature", generation.DefaultTemperature, "sampling temperature")
	flags.IntVar(&opts.topK, "top-k", 50, "top-k sampling, 0 disables")
	flags.Float64Var(&opts.topP, "top-p", generation.DefaultTopP, "nucleus sampling probability")
	flags.IntVarP(&opts.numOutputs, "num-outputs", "n", generation.DefaultNumOutputs, "number of paragraphs")
	flags.BoolVar(&opts.strict, "strict", false, "add explicit tone constraints to the instruction")
	flags.BoolVar(&opts.verify, "verify", false, "re-classify each output and report whether its tone matches")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")

	return cmd
}

func (o generateOptions) validate() error {
	if strings.TrimSpace(o.prompt) == "" {
		return errBlankPrompt
	}
	if o.sentiment != sentimentAuto {
		if _, ok := models.ParseSentiment(o.sentiment); !ok {
			return fmt.Errorf("invalid sentiment %q: want auto, positive, negative or neutral", o.sentiment)
		}
	}
	if o.numOutputs < 1 {
		return fmt.Errorf("num-outputs must be at least 1")
	}
	if o.maxLength < 1 {
		return fmt.Errorf("max-length must be at least 1")
	}
	return nil
}

func runGenerate(ctx context.Context, w io.Writer, a *app, opts generateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	detected, err := a.detector.Detect(ctx, opts.prompt)
	if err != nil {
		return err
	}

	chosen := detected.Label
	if opts.sentiment != sentimentAuto {
		chosen, _ = models.ParseSentiment(opts.sentiment)
	}

	topK := opts.topK
	paragraphs, err := a.generator.Generate(ctx, models.GenerationRequest{
		Prompt:      opts.prompt,
		Sentiment:   chosen,
		ModelID:     opts.model,
		MaxLength:   opts.maxLength,
		Temperature: opts.temperature,
		TopK:        &topK,
		TopP:        opts.topP,
		NumOutputs:  opts.numOutputs,
		Strict:      opts.strict,
	})
	if err != nil {
		return err
	}

	var checks []models.ToneCheck
	if opts.verify {
		if checks, err = a.verifier.Verify(ctx, paragraphs, chosen); err != nil {
			return err
		}
	}

	out := generateOutput{
		Detected: detected,
		Result: models.GenerationResult{
			Sentiment:  chosen,
			ModelID:    generation.ResolveModel(opts.model),
			Paragraphs: paragraphs,
		},
		Checks: checks,
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printGenerateOutput(w, out, opts.sentiment != sentimentAuto)
}

func printGenerateOutput(w io.Writer, out generateOutput, overridden bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Detected sentiment: %s (confidence: %.2f)\n", out.Detected.Label, out.Detected.Confidence)
	if overridden {
		fmt.Fprintf(&b, "Manual override: using %s\n", out.Result.Sentiment)
	}

	for i, p := range out.Result.Paragraphs {
		fmt.Fprintf(&b, "\nOutput #%d\n%s\n", i+1, p)
		if i < len(out.Checks) {
			c := out.Checks[i]
			fmt.Fprintf(&b, "Tone check: %s (confidence: %.2f, matches: %t)\n", c.Label, c.Confidence, c.Matches)
		}
		b.WriteString("---\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
