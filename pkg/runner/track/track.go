// Package track provides the habit check-in runner.
package track

import (
	"context"
	"errors"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/printers"
)

// Track checks a habit in (or out) for a day.
type Track struct {
	HabitID string
	// Date defaults to today.
	Date  datekey.Key
	Undo  bool
	Quiet bool

	Service *app.Service
}

// Do records the check-in and reprints today's habits.
func (n *Track) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not track, no service")
	}
	var (
		res app.Result
		err error
	)
	if n.Undo {
		res, err = n.Service.Uncheck(ctx, n.HabitID, n.Date)
	} else {
		_, res, err = n.Service.CheckIn(ctx, n.HabitID, n.Date)
	}
	if err != nil {
		return err
	}
	printers.Warn(res.Warning)
	if n.Quiet {
		return nil
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Habits(res.Snapshot.Habits)
	return nil
}
