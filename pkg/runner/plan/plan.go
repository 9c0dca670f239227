// Package plan runs the daily setup from command-line choices.
package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/planner"
	"tableflip.dev/focus/pkg/printers"
)

// Plan is one non-interactive pass over today's session. With neither a time
// nor an energy choice it only shows the session and its candidates.
type Plan struct {
	Time    string
	Energy  string
	In      []string
	Out     []string
	Primary string
	Skip    bool
	// DryRun stages and shows the result without committing.
	DryRun bool
	ShowID bool

	Service *app.Service
}

func (p *Plan) Do(ctx context.Context) error {
	if p.Service == nil {
		return errors.New("can not plan, no service")
	}
	pp := printers.PrettyPrint{ShowID: p.ShowID}

	if p.Skip {
		setup, res, err := p.Service.SkipDay(ctx)
		if err != nil {
			return err
		}
		printers.Warn(res.Warning)
		_, _ = fmt.Fprintf(color.Output, "Skipped planning for %s.\n", setup.Date)
		return nil
	}

	session := p.Service.Planning()
	if p.Time != "" {
		tb, err := planner.ParseTimeBudget(p.Time)
		if err != nil {
			return err
		}
		if err := session.SelectTime(tb); err != nil {
			return err
		}
	}
	if p.Energy != "" {
		el, err := planner.ParseEnergyLevel(p.Energy)
		if err != nil {
			return err
		}
		if err := session.SelectEnergy(el); err != nil {
			return err
		}
	}

	if len(p.In)+len(p.Out) == 0 && p.Primary == "" && session.State() != planner.FullySpecified {
		pp.NewLine()
		pp.Planning(session)
		return p.showCandidates(ctx, &pp)
	}

	for _, id := range p.Out {
		if err := session.StageMoveOut(id, ""); err != nil {
			p.Service.DiscardPlanning()
			return fmt.Errorf("move %s out: %w", id, err)
		}
	}
	for _, id := range p.In {
		if err := session.StageMoveIn(id); err != nil {
			p.Service.DiscardPlanning()
			return fmt.Errorf("move %s in: %w", id, err)
		}
	}
	if p.Primary != "" {
		if err := session.ChoosePrimary(p.Primary); err != nil {
			p.Service.DiscardPlanning()
			return err
		}
	}

	pp.NewLine()
	pp.Planning(session)
	if p.DryRun {
		p.Service.DiscardPlanning()
		return nil
	}

	out, res, err := p.Service.CommitPlan(ctx)
	printers.Warn(res.Warning)
	var primaryErr *planner.PrimaryError
	if errors.As(err, &primaryErr) {
		printers.Warn(primaryErr)
	} else if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "Committed: %d in, %d out, focus limit %d.\n\n", out.MovedIn, out.MovedOut, out.Setup.ComputedLimit)
	daily, _ := res.Snapshot.Horizon(horizon.Daily)
	pp.Horizon(daily, printers.ProjectNames(res.Snapshot))
	return nil
}

func (p *Plan) showCandidates(ctx context.Context, pp *printers.PrettyPrint) error {
	cands, err := p.Service.Candidates(ctx, horizon.Daily, time.Time{})
	if err != nil {
		return err
	}
	pp.Candidates(cands)
	return nil
}
