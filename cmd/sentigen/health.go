package main

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/spacesedan/sentigen/internal/clients"
	"github.com/spacesedan/sentigen/internal/generation"
	"github.com/spacesedan/sentigen/internal/monitoring"
	"github.com/spf13/cobra"
)

func newHealthCmd(getApp func() *app) *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "health [model...]",
		Short: "Check that Hugging Face inference endpoints are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := getApp().settings
			client := clients.NewHuggingFaceClient(clients.HuggingFaceConfig{
				BaseURL: settings.HFInferenceURL,
				Token:   settings.HFAPIToken,
				Timeout: clients.RequestTimeout(settings.AppEnv),
			})

			targets := args
			if len(targets) == 0 {
				targets = []string{generation.ResolveModel(settings.DefaultModel)}
				if settings.SentimentEngine == "huggingface" {
					targets = append(targets, settings.SentimentModel)
				}
			}

			status := monitoring.CheckModels(cmd.Context(), client, targets)
			names := make([]string, 0, len(status))
			for name := range status {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, healthWord(status[name]))
			}

			if !watch {
				return nil
			}

			model := targets[0]
			healthy := &atomic.Bool{}
			healthy.Store(status[model])
			monitoring.MonitorModelHealth(cmd.Context(), client, model, interval, healthy, func(h bool) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", model, healthWord(h))
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep probing the first model until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", monitoring.HEALTHCHECK_TIMER, "probe interval when watching")
	return cmd
}

func healthWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}
