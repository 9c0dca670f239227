// Package printers renders service state for the terminal.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/planner"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

const idWidth = 8

var spacing = strings.Repeat(" ", idWidth+2)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count, limit int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	if limit == horizon.Unbounded {
		_, _ = c.Fprintf(pp.out(), " - %d open\n", count)
		return
	}
	full := c
	if count >= limit {
		full = color.New(color.FgYellow)
	}
	_, _ = full.Fprintf(pp.out(), " - %d/%d open\n", count, limit)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func shortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

// bullet is the task's marker: a star for the primary, an x once done.
func bullet(t horizon.Task) string {
	switch {
	case t.Completed:
		return "x"
	case t.IsPrimary:
		return "*"
	default:
		return "•"
	}
}

func (pp *PrettyPrint) taskRow(tbl *uitable.Table, t horizon.Task, extra string) {
	text := t.Text
	if t.Completed {
		text = color.New(color.Faint, color.CrossedOut).Sprint(text)
	} else if t.IsPrimary {
		text = color.New(color.Bold).Sprint(text)
	}
	if extra != "" {
		text += color.New(color.Faint).Sprint("  " + extra)
	}
	if pp.ShowID {
		tbl.AddRow(color.New(color.FgHiYellow, color.Italic, color.Faint).Sprint(shortID(t.ID)), bullet(t), text)
		return
	}
	tbl.AddRow(bullet(t), text)
}

// Horizon prints one horizon with its capacity use.
func (pp *PrettyPrint) Horizon(h horizon.Horizon, projects map[string]string) {
	pp.TitleWithCount(capitalise(h.ID.String()), h.OpenCount(), h.Capacity)
	if len(h.Tasks) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = " "
	for _, t := range h.Tasks {
		var extra []string
		if name := projects[t.ProjectID]; name != "" {
			extra = append(extra, "+"+name)
		}
		if t.MovedFrom != "" && !t.Completed {
			extra = append(extra, "from "+t.MovedFrom.String())
		}
		pp.taskRow(tbl, t, strings.Join(extra, " "))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Snapshot prints every horizon, finest first, then today's habits.
func (pp *PrettyPrint) Snapshot(snap app.Snapshot) {
	projects := ProjectNames(snap)
	ids := horizon.All()
	for i := len(ids) - 1; i >= 0; i-- {
		h, ok := snap.Horizon(ids[i])
		if !ok {
			continue
		}
		pp.Horizon(h, projects)
	}
	if len(snap.Habits) > 0 {
		pp.Habits(snap.Habits)
	}
}

// ProjectNames maps project ids to names for Horizon.
func ProjectNames(snap app.Snapshot) map[string]string {
	names := make(map[string]string, len(snap.Projects))
	for _, p := range snap.Projects {
		names[p.ID] = p.Name
	}
	return names
}

// Warn reports a non-fatal error, such as a failed save, on stderr.
func Warn(err error) {
	if err == nil {
		return
	}
	_, _ = color.New(color.FgYellow).Fprintf(color.Error, "warning: %v\n", err)
}

// Habits prints today's check-in state and current streaks.
func (pp *PrettyPrint) Habits(habits []app.HabitStatus) {
	pp.Title("Habits")
	tbl := uitable.New()
	tbl.Separator = "  "
	done := color.New(color.FgGreen)
	for _, h := range habits {
		mark := "[ ]"
		if h.CheckedToday {
			mark = done.Sprint("[x]")
		}
		row := []interface{}{mark, h.Name, fmt.Sprintf("%dd", h.Streak)}
		if pp.ShowID {
			row = append([]interface{}{shortID(h.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Candidates prints tasks that could be pulled closer to today.
func (pp *PrettyPrint) Candidates(cands []app.Candidate) {
	pp.Title("Candidates")
	if len(cands) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	f := color.New(color.Faint)
	for _, c := range cands {
		row := []interface{}{f.Sprint(c.Horizon), c.Task.Text, f.Sprint(c.LastTouched.Format("Jan 2 15:04"))}
		if c.Project != "" {
			row = append(row, "+"+c.Project)
		}
		if pp.ShowID {
			row = append([]interface{}{shortID(c.Task.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Planning prints where today's session stands.
func (pp *PrettyPrint) Planning(s *planner.Session) {
	pp.Title("Plan for " + s.Date().String())
	w := pp.out()
	f := color.New(color.Faint)
	if prev, ok := s.Previous(); ok && !prev.Skipped {
		_, _ = f.Fprintf(w, "last time: %s time, %s energy, limit %d\n", prev.TimeBudget, prev.EnergyLevel, prev.ComputedLimit)
	}
	tb, el := s.Selection()
	_, _ = fmt.Fprintf(w, "state: %s  time: %s  energy: %s\n", s.State(), orDash(string(tb)), orDash(string(el)))
	if limit, ok := s.CurrentLimit(); ok {
		_, _ = fmt.Fprintf(w, "daily focus: %d/%d\n", s.Projected(), limit)
	}
	in, out := s.Pending()
	for _, m := range in {
		_, _ = color.New(color.FgGreen).Fprintf(w, "  + %s\n", m)
	}
	for _, m := range out {
		_, _ = color.New(color.FgRed).Fprintf(w, "  - %s\n", m)
	}
	if p := s.Primary(); p != "" {
		_, _ = fmt.Fprintf(w, "primary: %s\n", p)
	}
	pp.NewLine()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Journal prints entries with their time of day.
func (pp *PrettyPrint) Journal(entries []journal.Entry) {
	if len(entries) == 0 {
		pp.none()
		return
	}
	f := color.New(color.Faint)
	for _, e := range entries {
		_, _ = f.Fprintf(pp.out(), "%s  ", e.CreatedAt.Format("15:04"))
		_, _ = fmt.Fprintln(pp.out(), e.Text)
	}
	pp.NewLine()
}

// Report prints the grouped activity report.
func (pp *PrettyPrint) Report(r app.ReportResult, label string) {
	pp.Title(fmt.Sprintf("Activity over %s (%d)", label, r.Total))
	if len(r.Sections) == 0 {
		pp.none()
		return
	}
	for _, sec := range r.Sections {
		_, _ = color.New(color.Bold).Fprintln(pp.out(), sec.Title())
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, item := range sec.Items {
			tbl.AddRow(color.New(color.Faint).Sprint(item.Event.Timestamp.Format("Mon Jan 2 15:04")), item.Subject)
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}
}
