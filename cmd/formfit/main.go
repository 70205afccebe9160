// FormFit, an ICF wall planner.
//
// A command-line planner that turns raw floor-plan wall segments into an
// insulated concrete form panel layout and a bill of materials.
//
// Build:
//   go build -o formfit ./cmd/formfit
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o formfit.exe ./cmd/formfit
//   GOOS=darwin  GOARCH=amd64 go build -o formfit-darwin ./cmd/formfit

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/FormFit/internal/cli"
)

// Injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
