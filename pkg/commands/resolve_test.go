package commands

import (
	"testing"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/horizon"
)

func TestResolveTaskPrefix(t *testing.T) {
	var snap app.Snapshot
	snap.Horizons = []horizon.Horizon{
		{ID: horizon.Daily, Tasks: []horizon.Task{{ID: "3f2a9c10-aaaa"}, {ID: "3f7b0000-bbbb"}}},
	}
	tests := map[string]struct {
		ref     string
		want    string
		wantErr bool
	}{
		"unique prefix": {ref: "3f2", want: "3f2a9c10-aaaa"},
		"full id":       {ref: "3f7b0000-bbbb", want: "3f7b0000-bbbb"},
		"ambiguous":     {ref: "3f", wantErr: true},
		"unknown":       {ref: "zz", want: "zz"},
		"empty":         {ref: " ", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := resolveTask(snap, tc.ref)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolveHabitByName(t *testing.T) {
	habits := []document.Habit{{ID: "h-1", Name: "Read"}, {ID: "h-2", Name: "run", Archived: true}}
	got, err := resolveHabit(habits, "read")
	if err != nil || got != "h-1" {
		t.Fatalf("want h-1, got %q (%v)", got, err)
	}
	// archived habits are not matched by name
	got, err = resolveHabit(habits, "run")
	if err != nil || got != "run" {
		t.Fatalf("want passthrough, got %q (%v)", got, err)
	}
}
