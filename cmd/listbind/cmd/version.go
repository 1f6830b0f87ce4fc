package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/listbind/cmd/listbind/internal/scenario"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "listbind version %s (built %s), scenario schema %s\n",
				Version, BuildTime, scenario.SupportedMajor)
		},
	})
}
