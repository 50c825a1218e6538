package commands

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/gridview/visibility"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestBenchOffsets(t *testing.T) {
	assert.Equal(t, []int{0, 25, 50, 75, 100, 50, 0}, benchOffsets(120, 20, 4))
	assert.Equal(t, []int{0, 0, 0, 0}, benchOffsets(10, 20, 0))
}

func TestRunBenchAgrees(t *testing.T) {
	for _, layout := range []string{"list", "grid"} {
		t.Run(layout, func(t *testing.T) {
			results, err := runBench(benchOptions{Items: 300, Layout: layout, Width: 60, Height: 20, Steps: 50})
			require.NoError(t, err)
			require.Len(t, results, 2)

			incremental, full := results[0], results[1]
			assert.Equal(t, visibility.Incremental, incremental.Mode)
			assert.Zero(t, incremental.Mismatches)
			assert.Zero(t, full.Mismatches)
			assert.Equal(t, full.Stats.Calls, incremental.Stats.Calls)
			assert.Less(t, incremental.Stats.Tests, full.Stats.Tests)
		})
	}
}

func TestRunBenchRejectsBadOptions(t *testing.T) {
	_, err := runBench(benchOptions{Items: 10, Layout: "list", Width: 0, Height: 10})
	assert.Error(t, err)
	_, err = runBench(benchOptions{Items: 10, Layout: "spiral", Width: 10, Height: 10})
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	out := execute(t, "bench", "--items", "100", "--steps", "10")
	assert.Contains(t, out, "100 items, list layout, 80x24 viewport")
	assert.Contains(t, out, "incremental")
	assert.Contains(t, out, "yes")
	assert.NotContains(t, out, "no (")
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version", "--short")
	assert.Contains(t, out, "dev")
}
