package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Carousel ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to amber, one step per line
	lines := []struct {
		text  string
		color string
	}{
		{`   ___                          _ `, "#2dd4bf"},
		{`  / __|__ _ _ _ ___ _  _ ___ ___| |`, "#34d399"},
		{` | (__/ _' | '_/ _ \ || (_-</ -_) |`, "#a3e635"},
		{`  \___\__,_|_| \___/\_,_/__/\___|_|`, "#facc15"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
