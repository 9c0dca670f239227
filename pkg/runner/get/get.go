// Package get lists horizons, optionally following changes made elsewhere.
package get

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/printers"
	"tableflip.dev/focus/pkg/store"
)

type Get struct {
	ShowID bool
	// Horizon limits output to one horizon; empty shows all.
	Horizon horizon.ID
	// Watch keeps running and reprints when the store changes.
	Watch bool

	Service *app.Service
	Log     *zap.Logger
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	n.print(n.Service.Snapshot())
	if !n.Watch {
		return nil
	}
	log := n.Log
	if log == nil {
		log = zap.NewNop()
	}

	events, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug("store changed", zap.String("section", ev.Section), zap.Bool("invalidated", ev.Type == store.EventInvalidated))
			snap, err := n.Service.Reload(ctx)
			if err != nil {
				// a writer may be mid-save; the next event retries
				log.Warn("reload failed", zap.Error(err))
				continue
			}
			n.print(snap)
		}
	}
}

func (n *Get) print(snap app.Snapshot) {
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	if n.Watch && isatty.IsTerminal(os.Stdout.Fd()) {
		// clear the screen between renders
		_, _ = fmt.Fprint(color.Output, "\033[H\033[2J")
	}
	pp.NewLine()
	if n.Horizon == "" {
		pp.Snapshot(snap)
		return
	}
	h, ok := snap.Horizon(n.Horizon)
	if !ok {
		return
	}
	pp.Horizon(h, printers.ProjectNames(snap))
}
