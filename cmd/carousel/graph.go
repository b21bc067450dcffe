package main

import (
	"fmt"
	"io"

	"github.com/aretw0/carousel/internal/cli"
	"github.com/aretw0/carousel/internal/presentation/graph"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the physical strip as a Mermaid diagram",
	Long: `Loads the configured items and outputs a Mermaid diagram (graph LR) of the
physical strip: loop clones, the home block and the reposition seams.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App, out io.Writer) error {
			layout := domain.NewLayout(len(app.Items), app.Config.Carousel.Normalize())
			fmt.Fprint(out, graph.GenerateMermaid(app.Items, layout, nil))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
