// Package log writes and shows journal entries.
package log

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/printers"
)

type Log struct {
	// Text is written as a new entry when set; otherwise On is shown.
	Text string
	On   datekey.Key

	Service *app.Service
}

func (n *Log) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not log, no service")
	}
	on := n.On
	if strings.TrimSpace(n.Text) != "" {
		e, res, err := n.Service.WriteJournal(ctx, n.Text)
		if err != nil {
			return err
		}
		printers.Warn(res.Warning)
		on = e.Date
	}
	if on == "" {
		on = n.Service.Snapshot().Today
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Title("Journal " + on.String())
	pp.Journal(n.Service.Journal(on))
	return nil
}
