package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/carousel/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted carousel positions",
	Long:  `List, inspect, and remove carousel positions held by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App, out io.Writer) error {
			ids, err := app.Manager.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(out, "No stored sessions found.")
				return nil
			}
			fmt.Fprintln(out, "Stored Sessions:")
			for _, id := range ids {
				fmt.Fprintln(out, "- "+id)
			}
			return nil
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the stored snapshot of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App, out io.Writer) error {
			snap, err := app.Store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", args[0], err)
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App, out io.Writer) error {
			var failed int
			for _, id := range args {
				if err := app.Manager.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(out, "Error removing '%s': %v\n", id, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "Removed session '%s'\n", id)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sessions could not be removed", failed, len(args))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

// withApp builds the shared components for a one-shot command.
func withApp(cmd *cobra.Command, fn func(app *cli.App, out io.Writer) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Metrics are only useful to long-running commands.
	cfg.Server.Metrics = false
	debug, _ := cmd.Flags().GetBool("debug")

	app, err := cli.NewApp(cmd.Context(), cfg, cli.CreateLogger(cfg.Log, debug))
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app, cmd.OutOrStdout())
}
