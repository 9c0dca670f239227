package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"json debug", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(Config{Level: "info", Format: "json"}); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := New(Config{Level: "nope"}); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestNewObserved(t *testing.T) {
	log, logs := NewObserved()
	log.Warn("task not found", zap.String("task_id", "t1"))
	entries := logs.FilterMessage("task not found").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["task_id"]; got != "t1" {
		t.Fatalf("unexpected field %v", got)
	}
}
