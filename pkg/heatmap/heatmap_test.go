package heatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
)

var today = datekey.MustParse("2026-10-16")

func at(day string) time.Time {
	return datekey.MustParse(day).Time().Add(12 * time.Hour)
}

func TestLevel(t *testing.T) {
	want := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 6: 3, 7: 4, 40: 4}
	for raw, level := range want {
		assert.Equal(t, level, Level(raw), "raw %d", raw)
	}
}

func TestBuildYearGridShape(t *testing.T) {
	g := BuildYearGrid(nil, nil, nil, 2026, today)
	cells := g.Cells()
	require.Len(t, cells, Weeks*DaysPerWeek)
	assert.Len(t, cells, 371)

	// 2026 starts on a Thursday, so the grid opens on Monday 2025-12-29.
	assert.Equal(t, datekey.Key("2025-12-29"), cells[0].Date)
	assert.Equal(t, time.Monday, cells[0].Date.Weekday())
	assert.False(t, cells[0].InTargetYear)
	assert.True(t, cells[3].InTargetYear)
	assert.Equal(t, datekey.Key("2026-01-01"), cells[3].Date)
	assert.Equal(t, datekey.Key("2027-01-03"), cells[len(cells)-1].Date)

	for i := 1; i < len(cells); i++ {
		require.Equal(t, cells[i-1].Date.AddDays(1), cells[i].Date, "grid must be contiguous")
	}

	c, ok := g.Cell(today)
	require.True(t, ok)
	assert.True(t, c.IsToday)
	assert.False(t, c.IsFuture)
	next, _ := g.Cell(today.AddDays(1))
	assert.True(t, next.IsFuture)
}

func TestBuildYearGridWeights(t *testing.T) {
	events := []ledger.Event{
		{Kind: ledger.KindTaskCompleted, Timestamp: at("2026-03-04")},
		{Kind: ledger.KindHabitChecked, Timestamp: at("2026-03-04"), SubjectID: "run"},
		{Kind: ledger.KindProjectCompleted, Timestamp: at("2026-03-04")},
		{Kind: ledger.KindTaskCompleted, Timestamp: at("2025-12-30")},
	}
	checkIns := []ledger.CheckIn{
		{HabitID: "run", Date: "2026-03-04"},
		{HabitID: "run", Date: "2025-12-30"},
	}
	entries := []journal.Entry{{ID: "j1", Date: "2026-03-05"}}

	g := BuildYearGrid(events, checkIns, entries, 2026, today)

	c, _ := g.Cell("2026-03-04")
	assert.Equal(t, 3, c.RawCount, "one task plus one check-in")
	assert.Equal(t, 2, c.Level)

	j, _ := g.Cell("2026-03-05")
	assert.Equal(t, 1, j.RawCount)
	assert.Equal(t, 1, j.Level)

	prior, _ := g.Cell("2025-12-30")
	assert.Equal(t, 3, prior.RawCount)
	assert.Equal(t, 0, prior.Level, "cells outside the year never show activity")

	assert.Equal(t, 4, g.Total)
}

func TestBounds(t *testing.T) {
	tests := map[Period][2]datekey.Key{
		Today:   {"2026-10-16", "2026-10-16"},
		Week:    {"2026-10-12", "2026-10-18"},
		Month:   {"2026-10-01", "2026-10-31"},
		Quarter: {"2026-10-01", "2026-12-31"},
		Year:    {"2026-01-01", "2026-12-31"},
	}
	for p, want := range tests {
		start, end, err := Bounds(p, today)
		require.NoError(t, err)
		assert.Equal(t, want[0], start, "%s start", p)
		assert.Equal(t, want[1], end, "%s end", p)
	}

	start, end, err := Bounds(Quarter, "2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, datekey.Key("2026-01-01"), start)
	assert.Equal(t, datekey.Key("2026-03-31"), end)

	_, _, err = Bounds("fortnight", today)
	assert.Error(t, err)
}

func fixture() Data {
	var checkIns []ledger.CheckIn
	for _, d := range []string{"2026-10-11", "2026-10-12", "2026-10-13", "2026-10-14", "2026-10-15", "2026-10-16"} {
		checkIns = append(checkIns, ledger.CheckIn{HabitID: "run", Date: datekey.Key(d)})
	}
	checkIns = append(checkIns,
		ledger.CheckIn{HabitID: "read", Date: "2026-10-16"},
		ledger.CheckIn{HabitID: "read", Date: "2026-10-20"},
	)
	return Data{
		Events: []ledger.Event{
			{Kind: ledger.KindTaskCompleted, Timestamp: at("2026-10-16")},
			{Kind: ledger.KindTaskCompleted, Timestamp: at("2026-10-16")},
			{Kind: ledger.KindTaskCompleted, Timestamp: at("2026-10-10")},
			{Kind: ledger.KindProjectCompleted, Timestamp: at("2026-10-14")},
		},
		CheckIns: checkIns,
		Journal:  []journal.Entry{{ID: "j1", Date: "2026-10-13"}},
		HabitIDs: []string{"run", "read"},
		Today:    today,
	}
}

func TestPeriodStatsWeek(t *testing.T) {
	s, err := PeriodStats(fixture(), Week)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Period:            Week,
		Start:             "2026-10-12",
		End:               "2026-10-18",
		TotalTasks:        2,
		HabitDays:         5,
		HabitPercentage:   60,
		CurrentStreak:     6,
		JournalEntries:    1,
		ProjectsCompleted: 1,
	}, s)
}

func TestPeriodStatsMonth(t *testing.T) {
	s, err := PeriodStats(fixture(), Month)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalTasks)
	assert.Equal(t, 6, s.HabitDays)
	assert.Equal(t, 22, s.HabitPercentage)
}

func TestPeriodStatsNoHabits(t *testing.T) {
	d := fixture()
	d.HabitIDs = nil
	s, err := PeriodStats(d, Today)
	require.NoError(t, err)
	assert.Zero(t, s.HabitPercentage)
	assert.Zero(t, s.CurrentStreak)
	assert.Zero(t, s.HabitDays)
}

func TestPeriodStatsIgnoresArchivedHabits(t *testing.T) {
	d := fixture()
	d.HabitIDs = []string{"read"}
	s, err := PeriodStats(d, Week)
	require.NoError(t, err)
	// only read's check-in on the 16th counts; run is archived
	assert.Equal(t, 1, s.HabitDays)
	assert.Equal(t, 20, s.HabitPercentage)
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestBuildRecap(t *testing.T) {
	r, err := BuildRecap(fixture(), Week)
	require.NoError(t, err)
	assert.Equal(t, 5, r.ActiveDays)
	assert.Equal(t, datekey.Key("2026-10-16"), r.BusiestDay)
	assert.Equal(t, 6, r.BusiestCount)
	assert.Equal(t, 2, r.TotalTasks)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Quarter")
	require.NoError(t, err)
	assert.Equal(t, Quarter, p)
	_, err = ParsePeriod("decade")
	assert.Error(t, err)
}
