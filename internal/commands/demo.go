package commands

import (
	"github.com/spf13/cobra"

	"github.com/xqrs/gridview/internal/config"
	"github.com/xqrs/gridview/internal/demo"
)

func addDemo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Scroll and reorder generated items.",
		Long: `Shows generated items in a collection. Long press an item, or press
space on it, to lift it and drag it to a new place. The order is saved and
restored on the next run.`,
		Example: `
gridview demo
gridview demo --layout grid --items 1000
GRIDVIEW_LAYOUT=chat gridview demo
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return demo.Run(cfg)
		},
	}
	config.AddFlags(cmd.Flags())

	topLevel.AddCommand(cmd)
}
