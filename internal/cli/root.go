package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the formfit CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) switches to
// debug. The logger is attached to the context and accessible to all
// commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "formfit",
		Short:        "FormFit plans ICF wall construction from floor-plan skeletons",
		Long:         `FormFit reconstructs wall runs from raw floor-plan segments, tiles them with ICF panels row by row and produces a bill of materials with bin-packed purchase quantities.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("formfit %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlanCmd())
	root.AddCommand(newInitCmd())

	return root.ExecuteContext(ctx)
}
