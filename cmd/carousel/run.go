package main

import (
	"context"
	"os"

	"github.com/aretw0/carousel/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Swipe a carousel in the terminal",
	Long: `Opens a carousel and drives it from the keyboard.
Without a terminal (or with --headless) it runs autoplay and prints every settle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")
		session, _ := cmd.Flags().GetString("session")
		debug, _ := cmd.Flags().GetBool("debug")

		columns := 0
		fd := int(os.Stdout.Fd())
		if !term.IsTerminal(fd) {
			headless = true
		} else if width, _, err := term.GetSize(fd); err == nil {
			columns = width - 4
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Run(ctx, cli.RunOptions{
			Config:    cfg,
			SessionID: session,
			Headless:  headless,
			Debug:     debug,
			Columns:   columns,
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Print settles instead of drawing the strip")
	runCmd.Flags().StringP("session", "s", "", "Session ID to resume (a new one is generated when empty)")

	// Make 'run' the default if no command is provided
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
