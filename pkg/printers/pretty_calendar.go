package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/heatmap"
)

var levels = []*color.Color{
	color.New(color.Faint, color.FgWhite),
	color.New(color.FgGreen, color.Faint),
	color.New(color.FgGreen),
	color.New(color.FgHiGreen),
	color.New(color.FgHiGreen, color.Bold),
}

var today = color.New(color.FgHiGreen, color.Underline)

const (
	filled = "■"
	blank  = " "
)

// Heatmap prints the year grid, one row per weekday, Monday first.
func (pp *PrettyPrint) Heatmap(g heatmap.Grid) {
	w := pp.out()
	pp.Title(fmt.Sprintf("%d - %d points", g.Year, g.Total))

	// month labels over the first week column that starts in each month
	var header strings.Builder
	header.WriteString("    ")
	last := time.Month(0)
	for x := 0; x < heatmap.Weeks; x++ {
		c := g.Weeks[x][0]
		m := c.Date.Month()
		if c.InTargetYear && m != last && header.Len() <= 4+2*x {
			header.WriteString(strings.Repeat(" ", 4+2*x-header.Len()))
			header.WriteString(m.String()[:3])
			last = m
		}
	}
	_, _ = color.New(color.Faint).Fprintln(w, header.String())

	for y := 0; y < heatmap.DaysPerWeek; y++ {
		label := "   "
		if y%2 == 0 {
			label = time.Weekday((y + 1) % 7).String()[:3]
		}
		_, _ = color.New(color.Faint).Fprint(w, label+" ")
		for x := 0; x < heatmap.Weeks; x++ {
			c := g.Weeks[x][y]
			switch {
			case !c.InTargetYear || c.IsFuture:
				_, _ = fmt.Fprint(w, blank+" ")
			case c.IsToday:
				_, _ = today.Fprint(w, filled+" ")
			default:
				_, _ = levels[c.Level].Fprint(w, filled+" ")
			}
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = color.New(color.Faint).Fprint(w, "\n    less ")
	for _, l := range levels {
		_, _ = l.Fprint(w, filled+" ")
	}
	_, _ = color.New(color.Faint).Fprintln(w, "more")
	pp.NewLine()
}

// Stats prints the period summary.
func (pp *PrettyPrint) Stats(s heatmap.Stats) {
	pp.Title(fmt.Sprintf("%s (%s to %s)", capitalise(string(s.Period)), s.Start, s.End))
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("tasks completed", s.TotalTasks)
	tbl.AddRow("habit days", s.HabitDays)
	tbl.AddRow("habit completion", fmt.Sprintf("%d%%", s.HabitPercentage))
	tbl.AddRow("best current streak", fmt.Sprintf("%dd", s.CurrentStreak))
	tbl.AddRow("journal entries", s.JournalEntries)
	tbl.AddRow("projects completed", s.ProjectsCompleted)
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Recap prints the stats plus the busiest day.
func (pp *PrettyPrint) Recap(r heatmap.Recap) {
	pp.Stats(r.Stats)
	f := color.New(color.Faint)
	if r.BusiestCount == 0 {
		_, _ = f.Fprintln(pp.out(), "no activity yet")
		pp.NewLine()
		return
	}
	_, _ = f.Fprintf(pp.out(), "%d active day(s); busiest was %s with %d point(s)\n", r.ActiveDays, r.BusiestDay, r.BusiestCount)
	pp.NewLine()
}

// Streaks prints current and longest streak per habit.
func (pp *PrettyPrint) Streaks(views []app.StreakView) {
	pp.Title("Streaks")
	if len(views) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("habit"), bold.Sprint("current"), bold.Sprint("longest"))
	for _, v := range views {
		tbl.AddRow(v.Habit.Name, v.Current, v.Longest)
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
