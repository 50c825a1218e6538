// Package commands holds the command line of gridview.
package commands

import (
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridview",
		Short: "Virtualized, reorderable item collections in the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addDemo(topLevel)
	addBench(topLevel)
	addVersion(topLevel)
}
