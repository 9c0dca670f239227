// Package key prints the legend for task markers and heatmap levels.
package key

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/focus/pkg/heatmap"
	"tableflip.dev/focus/pkg/planner"
)

// Key prints the legends.
type Key struct{}

// Do renders the marker, heatmap and focus limit tables to stdout.
func (k *Key) Do(_ context.Context) error {
	bold := color.New(color.Bold)
	out := color.Output

	_, _ = fmt.Fprintln(out)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Marker"), bold.Sprint("Meaning"))
	tbl.AddRow("•", "open task")
	tbl.AddRow("*", "primary task of its horizon")
	tbl.AddRow("x", "completed task")
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out)

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Level"), bold.Sprint("Points"))
	for _, row := range []struct {
		raw   int
		label string
	}{{0, "0"}, {1, "1-2"}, {3, "3-4"}, {5, "5-6"}, {7, "7+"}} {
		tbl.AddRow(heatmap.Level(row.raw), row.label)
	}
	tbl.AddRow("", fmt.Sprintf("task %d, check-in %d, journal %d", heatmap.WeightTask, heatmap.WeightCheckIn, heatmap.WeightJournal))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out)

	tbl = uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold.Sprint("Time \\ Energy")}
	for _, e := range planner.EnergyLevels() {
		header = append(header, bold.Sprint(e))
	}
	tbl.AddRow(header...)
	for _, tb := range planner.TimeBudgets() {
		row := []interface{}{tb}
		for _, e := range planner.EnergyLevels() {
			limit, _ := planner.ComputeLimit(tb, e)
			row = append(row, limit)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out)
	return nil
}
