// Package add provides the runner that adds a task to a horizon.
package add

import (
	"context"
	"errors"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/printers"
)

type Add struct {
	Horizon   horizon.ID
	Text      string
	ProjectID string
	Primary   bool
	ShowID    bool

	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	if n.Horizon == "" {
		n.Horizon = horizon.Intake
	}

	_, res, err := n.Service.AddTask(ctx, n.Horizon, n.Text, horizon.Fields{ProjectID: n.ProjectID, Primary: n.Primary})
	if err != nil {
		return err
	}
	printers.Warn(res.Warning)

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	h, _ := res.Snapshot.Horizon(n.Horizon)
	pp.NewLine()
	pp.Horizon(h, printers.ProjectNames(res.Snapshot))
	return nil
}
