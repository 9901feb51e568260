package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/spinflip/cmd/spinflip"
	"github.com/arthur-debert/spinflip/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := spinflip.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		renderer, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr)
		if rerr != nil || renderer.RenderError(err) != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
