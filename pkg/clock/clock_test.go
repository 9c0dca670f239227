package clock

import (
	"testing"
	"time"

	"tableflip.dev/focus/pkg/datekey"
)

func TestFixedAdvanceCrossesMidnight(t *testing.T) {
	c := NewFixed(time.Date(2026, 10, 16, 23, 0, 0, 0, time.Local))
	if got, want := c.Today(), datekey.MustParse("2026-10-16"); got != want {
		t.Fatalf("Today() = %s, want %s", got, want)
	}

	c.Advance(2 * time.Hour)
	if got, want := c.Today(), datekey.MustParse("2026-10-17"); got != want {
		t.Errorf("after Advance, Today() = %s, want %s", got, want)
	}

	c.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.Local))
	if got, want := c.Today(), datekey.MustParse("2026-01-01"); got != want {
		t.Errorf("after Set, Today() = %s, want %s", got, want)
	}
}
