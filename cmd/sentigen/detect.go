package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDetectCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text]",
		Short: "Print the detected sentiment and confidence of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getApp().detector.Detect(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", result.Label, result.Confidence)
			return nil
		},
	}
}
