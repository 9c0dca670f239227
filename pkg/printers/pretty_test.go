package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/heatmap"
	"tableflip.dev/focus/pkg/horizon"
)

func init() {
	color.NoColor = true
}

func TestHorizonShowsCapacityAndProvenance(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	h := horizon.Horizon{
		ID:       horizon.Daily,
		Capacity: 3,
		Tasks: []horizon.Task{
			{ID: "a", Text: "write tests", IsPrimary: true, MovedFrom: horizon.Weekly, ProjectID: "p"},
			{ID: "b", Text: "inbox zero", Completed: true},
		},
	}
	pp.Horizon(h, map[string]string{"p": "launch"})

	out := buf.String()
	for _, want := range []string{"Daily - 1/3 open", "* write tests", "+launch from weekly", "x inbox zero"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEmptyHorizonPrintsNone(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Horizon(horizon.Horizon{ID: horizon.Intake}, nil)
	if !strings.Contains(buf.String(), "Intake - 0 open") || !strings.Contains(buf.String(), "none") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestHeatmapHasSevenRows(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	g := heatmap.BuildYearGrid(nil, nil, nil, 2026, "2026-10-16")
	pp.Heatmap(g)

	out := buf.String()
	for _, day := range []string{"Mon", "Wed", "Fri", "Sun"} {
		if !strings.Contains(out, day) {
			t.Errorf("expected %s row label", day)
		}
	}
	if !strings.Contains(out, "Jan") || !strings.Contains(out, "Dec") {
		t.Errorf("expected month labels:\n%s", out)
	}
}

func TestStreaksTable(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	var v app.StreakView
	v.Habit.Name = "read"
	v.Current, v.Longest = 4, 9
	pp.Streaks([]app.StreakView{v})
	if !strings.Contains(buf.String(), "read") || !strings.Contains(buf.String(), "9") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
