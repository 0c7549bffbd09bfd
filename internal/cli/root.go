// Package cli implements the kbctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// options holds global flag values shared by all subcommands.
type options struct {
	configDir string
	dataDir   string
	domain    string
	logLevel  string
	json      bool
}

// NewRootCmd creates the top-level "kbctl" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "kbctl",
		Short: "Inspect planning problems against a contingent knowledge base",
		Long: "kbctl loads planning problems into a contingent knowledge base, validates\n" +
			"them against a domain, reports goal satisfaction and archives snapshots.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configDir, "config-dir", "", "configuration directory (env CONTINGENT_CONFIG_DIR)")
	pf.StringVar(&o.dataDir, "data-dir", "", "snapshot data directory (default: $(CWD)/.contingent-db)")
	pf.StringVar(&o.domain, "domain", "", "domain YAML file (env CONTINGENT_DOMAIN)")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&o.json, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(o),
		newCheckCmd(o),
		newRenderCmd(o),
		newSnapshotCmd(o),
		newWatchCmd(o),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:])
}

func run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return exitCode(err)
}
