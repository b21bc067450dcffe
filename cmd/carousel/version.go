package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/carousel"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of carousel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "carousel version %s\n", strings.TrimSpace(carousel.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
