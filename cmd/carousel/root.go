package main

import (
	"fmt"
	"os"

	"github.com/aretw0/carousel/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Carousel is a looping, gesture-driven item strip",
	Long: `Carousel hosts infinite-loop carousels: swipe them in the terminal,
replay gesture scripts headless, or serve them over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "carousel.yaml", "Configuration file (YAML or JSON); missing means defaults")
	rootCmd.PersistentFlags().String("deck", "", "Directory of item documents (overrides the config deck)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if deck, _ := cmd.Flags().GetString("deck"); deck != "" {
		cfg.Deck = deck
	}
	return cfg, nil
}
