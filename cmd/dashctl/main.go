// dashctl renders the sentiment dashboard in a terminal, exports the
// heatmap as HTML, prints the container stack and issues API tokens.
//
// Usage:
//
//	dashctl render [--source mock|sql] [--query q] [--width n] [--order o] [--collisions c]
//	dashctl heatmap-html [--out file]
//	dashctl infra compose|outputs [--db-password p] [--show-sensitive]
//	dashctl token --subject s [--role r]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage: dashctl render|heatmap-html|infra|token [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return runRender(ctx, rest, out, logger)
	case "heatmap-html":
		return runHeatmapHTML(ctx, rest, out, logger)
	case "infra":
		return runInfra(rest, out, os.Getenv)
	case "token":
		return runToken(rest, out, os.Getenv)
	case "-h", "--help", "help":
		fmt.Fprintln(out, errUsage.Error())
		return nil
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}
