package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/contingent/pkg/kb"
)

const modulePath = "github.com/mesh-intelligence/contingent"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kbctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "kbctl v%s\nmodule: %s\n", kb.Version, modulePath)
			return nil
		},
	}
}
