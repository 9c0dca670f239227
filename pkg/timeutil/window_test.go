package timeutil

import (
	"testing"
	"time"
)

var now = time.Date(2026, time.October, 16, 15, 30, 0, 0, time.Local)

func TestResolveDefaultsToAWeek(t *testing.T) {
	w, err := Resolve("", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Until.Sub(w.Since); got != 7*24*time.Hour {
		t.Fatalf("expected one week, got %v", got)
	}
	if w.Label != "1w" {
		t.Fatalf("expected label 1w, got %s", w.Label)
	}
}

func TestResolveToday(t *testing.T) {
	w, err := Resolve(" Today ", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.Local)
	if !w.Since.Equal(want) {
		t.Fatalf("expected %v, got %v", want, w.Since)
	}
}

func TestParseDurationComposite(t *testing.T) {
	d, label, err := ParseDuration("1w 2d 6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (9*24 + 6) * time.Hour; d != want {
		t.Fatalf("expected %v, got %v", want, d)
	}
	if label != "1w2d6h" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseDurationNormalisesLabel(t *testing.T) {
	_, label, err := ParseDuration("10days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "1w3d" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3y", "0d"} {
		if _, _, err := ParseDuration(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
