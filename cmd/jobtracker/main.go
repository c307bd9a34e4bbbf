// jobtracker tracks job applications against a /api/jobs backend.
//
// Usage:
//
//	jobtracker ui                      serve the browser UI
//	jobtracker backend                 serve the sqlite reference backend
//	jobtracker list [--status S]
//	jobtracker add --company C --position P --location L [--status S]
//	jobtracker edit ID [--status S] ...
//	jobtracker delete ID [--yes]
//	jobtracker token set|delete
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

type globalFlags struct {
	configPath string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "jobtracker",
		Short:         "Track job applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default <data-dir>/config.yml)")
	pf.StringVar(&g.dataDir, "data-dir", "", "data directory (default $JOBTRACKER_DATA_DIR or .)")

	root.AddCommand(
		newUICmd(&g),
		newBackendCmd(&g),
		newListCmd(&g),
		newAddCmd(&g),
		newEditCmd(&g),
		newDeleteCmd(&g),
		newTokenCmd(&g),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
