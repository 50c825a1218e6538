package commands

import (
	"fmt"
	"image"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/xqrs/gridview/internal/config"
	"github.com/xqrs/gridview/internal/demo"
	"github.com/xqrs/gridview/visibility"
)

type benchOptions struct {
	Items  int
	Layout string
	Width  int
	Height int
	Steps  int
}

type benchResult struct {
	Mode  visibility.Mode
	Stats visibility.Stats
	// Mismatches counts queries whose result differed from a full scan.
	Mismatches int
}

func addBench(topLevel *cobra.Command) {
	o := benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the visibility index modes on a scroll through generated items.",
		Example: `
gridview bench
gridview bench --items 10000 --layout grid --steps 500
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := runBench(o)
			if err != nil {
				return err
			}
			printBench(cmd.OutOrStdout(), o, results)
			return nil
		},
	}

	d := config.Defaults()
	cmd.Flags().IntVar(&o.Items, config.KeyItems, 5000, "Number of generated items.")
	cmd.Flags().StringVar(&o.Layout, config.KeyLayout, d.Layout, "Item layout. One of 'list', 'grid' or 'chat'.")
	cmd.Flags().IntVar(&o.Width, "width", 80, "Viewport width.")
	cmd.Flags().IntVar(&o.Height, "height", 24, "Viewport height.")
	cmd.Flags().IntVar(&o.Steps, "steps", 200, "Number of scroll steps from top to bottom.")

	topLevel.AddCommand(cmd)
}

// benchOffsets scrolls down in even steps and then jumps to the middle and
// back to the top.
func benchOffsets(contentHeight, viewportHeight, steps int) []int {
	maxOffset := max(contentHeight-viewportHeight, 0)
	steps = max(steps, 1)
	offsets := make([]int, 0, steps+3)
	for i := range steps + 1 {
		offsets = append(offsets, maxOffset*i/steps)
	}
	return append(offsets, maxOffset/2, 0)
}

// runBench runs the same queries against an index in each mode and checks
// them against a full scan.
func runBench(o benchOptions) ([]benchResult, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("bench: viewport must not be empty, got %dx%d", o.Width, o.Height)
	}
	cfg := config.Defaults()
	cfg.Items = o.Items
	cfg.Layout = o.Layout
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	frames, err := demo.Frames(&cfg, demo.Generate(o.Items), o.Width)
	if err != nil {
		return nil, err
	}
	var content image.Rectangle
	for _, frame := range frames {
		content = content.Union(frame)
	}

	reference := visibility.New(visibility.WithMode(visibility.FullScan))
	reference.Reload(frames)

	var results []benchResult
	for _, mode := range []visibility.Mode{visibility.Incremental, visibility.FullScan} {
		index := visibility.New(visibility.WithMode(mode))
		index.Reload(frames)
		result := benchResult{Mode: mode}
		for _, offset := range benchOffsets(content.Max.Y, o.Height, o.Steps) {
			active := image.Rect(0, offset, o.Width, offset+o.Height)
			if !slices.Equal(index.Visible(active), reference.Visible(active)) {
				result.Mismatches++
			}
		}
		result.Stats = index.Stats()
		results = append(results, result)
	}
	return results, nil
}

func printBench(out io.Writer, o benchOptions, results []benchResult) {
	bold := color.New(color.Bold).SprintFunc()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	tbl.RightAlign(4)
	tbl.RightAlign(5)
	tbl.AddRow(bold("Mode"), bold("Calls"), bold("Full scans"), bold("Reseeds"), bold("Guard scans"), bold("Tests"), bold("Agrees"))
	for _, r := range results {
		agrees := color.GreenString("yes")
		if r.Mismatches > 0 {
			agrees = color.RedString("no (%d)", r.Mismatches)
		}
		tbl.AddRow(r.Mode, r.Stats.Calls, r.Stats.FullScans, r.Stats.Reseeds, r.Stats.GuardScans, r.Stats.Tests, agrees)
	}
	_, _ = fmt.Fprintf(out, "%s items, %s layout, %dx%d viewport\n", bold(o.Items), o.Layout, o.Width, o.Height)
	_, _ = fmt.Fprintln(out, tbl)
}
