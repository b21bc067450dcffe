package main

import (
	"fmt"
	"os"

	"github.com/aretw0/carousel/internal/cli"
	"github.com/aretw0/carousel/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <script.yaml>",
	Short: "Replay a gesture script headless and print a report",
	Long: `Replays a YAML script of swipes, taps and waits against a carousel
driven by a simulated clock, then prints a Markdown report of every step.

Example script:

  items: [a, b, c]
  config:
    loop: false
  steps:
    - swipe: {translation: -200, velocity: 0}
    - wait: 2s
    - goto: 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		script, err := cli.ParseScript(data)
		if err != nil {
			return err
		}

		report, err := cli.Simulate(cmd.Context(), cfg, script)
		if err != nil {
			return err
		}

		md := report.Markdown()
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out, err := tui.NewRenderer(0)(md)
		if err != nil {
			// Fall back to the plain Markdown
			out = md
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("raw", false, "Print the report as plain Markdown")
}
