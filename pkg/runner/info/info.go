// Package info prints where focus keeps its data and how it is configured.
package info

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/store"
)

type Info struct {
	Config  store.Config
	Service *app.Service
}

func (n *Info) Do(_ context.Context) error {
	out := color.Output
	if override := os.Getenv("FOCUS_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "FOCUS_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "FOCUS_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		if n.Config, err = store.LoadConfig(); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out, "Config.path:   ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend:", n.Config.Backend())
	_, _ = fmt.Fprintln(out, "Config.log:    ", n.Config.Logging().Level, n.Config.Logging().Format)

	if n.Service == nil {
		return fmt.Errorf("failed to open the store")
	}
	snap := n.Service.Snapshot()
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("horizon"), bold.Sprint("open"), bold.Sprint("capacity"))
	for _, id := range horizon.All() {
		h, _ := snap.Horizon(id)
		limit := "unbounded"
		if h.Bounded() {
			limit = fmt.Sprint(h.Capacity)
		}
		tbl.AddRow(id, h.OpenCount(), limit)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintf(out, "\n%d habit(s), %d project(s), %d setup(s)\n", len(n.Service.Habits()), len(snap.Projects), len(n.Service.Setups()))
	return nil
}
