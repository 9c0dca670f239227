// Package complete provides the runner logic for completing and reopening tasks.
package complete

import (
	"context"
	"errors"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/printers"
)

// Complete sets a task's completion state.
type Complete struct {
	ID string
	// Reopen marks the task open again instead.
	Reopen bool

	Service *app.Service
}

// Do applies the change and reprints the task's horizon.
func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no service")
	}
	t, res, err := n.Service.ToggleComplete(ctx, n.ID, !n.Reopen)
	if err != nil {
		return err
	}
	printers.Warn(res.Warning)

	_, id, _ := res.Snapshot.Locate(t.ID)
	h, _ := res.Snapshot.Horizon(id)
	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	pp.Horizon(h, printers.ProjectNames(res.Snapshot))
	return nil
}
