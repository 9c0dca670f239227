package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/printers"
	"tableflip.dev/focus/pkg/runner/plan"
	"tableflip.dev/focus/pkg/timeutil"
)

func addPlan(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	p := &plan.Plan{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run today's setup",
		Long: `Plan turns the time and energy you have today into a focus limit of one to
three open daily tasks, then moves tasks into and out of daily within that
limit and records the day's setup.

Without --time and --energy it shows the current state and the candidates.

  time:   short (1), medium (2), long (3), full (3)
  energy: low (-1), medium (0), high (+1)`,
		Example: `
focus plan
focus plan --time medium --energy high --in 3f2a --in 9c1d --primary 3f2a
focus plan --time short --energy low --out 77ab
focus plan --skip
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				snap := s.svc.Snapshot()
				var err error
				for i := range p.In {
					if p.In[i], err = resolveTask(snap, p.In[i]); err != nil {
						return err
					}
				}
				for i := range p.Out {
					if p.Out[i], err = resolveTask(snap, p.Out[i]); err != nil {
						return err
					}
				}
				if p.Primary != "" {
					if p.Primary, err = resolveTask(snap, p.Primary); err != nil {
						return err
					}
				}
				p.ShowID = io.ShowID
				p.Service = s.svc
				return p.Do(cmd.Context())
			})
		},
	}
	cmd.Flags().StringVarP(&p.Time, "time", "t", "", "Time available: short, medium, long or full.")
	cmd.Flags().StringVarP(&p.Energy, "energy", "e", "", "Energy available: low, medium or high.")
	cmd.Flags().StringSliceVar(&p.In, "in", nil, "Task to pull into daily (repeatable).")
	cmd.Flags().StringSliceVar(&p.Out, "out", nil, "Daily task to send back where it came from (repeatable).")
	cmd.Flags().StringVar(&p.Primary, "primary", "", "Task to make today's primary.")
	cmd.Flags().BoolVar(&p.Skip, "skip", false, "Record that today is not being planned.")
	cmd.Flags().BoolVar(&p.DryRun, "dry-run", false, "Show the staged plan without committing it.")
	options.AddShowIDArgs(cmd, io)
	cmd.MarkFlagsMutuallyExclusive("skip", "time")
	cmd.MarkFlagsMutuallyExclusive("skip", "energy")

	topLevel.AddCommand(cmd)
}

func addCandidates(topLevel *cobra.Command) {
	ho := &options.HorizonOptions{}
	io := &options.IDOptions{}
	var since string

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List open tasks in coarser horizons, most recently touched first",
		Example: `
focus candidates
focus candidates -z weekly --since 2w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := ho.Get()
			if err != nil {
				return err
			}
			var from time.Time
			return withService(cmd.Context(), func(s *session) error {
				if since != "" {
					w, err := timeutil.Resolve(since, s.svc.Now())
					if err != nil {
						return err
					}
					from = w.Since
				}
				cands, err := s.svc.Candidates(cmd.Context(), target, from)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Print(cands)
				}
				pp := printers.PrettyPrint{ShowID: io.ShowID}
				pp.NewLine()
				pp.Candidates(cands)
				return nil
			})
		},
	}
	options.AddHorizonArgs(cmd, ho, horizon.Daily)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().StringVar(&since, "since", "", "Only tasks touched within this window (for example 3d, 2w); intake is always listed.")

	topLevel.AddCommand(cmd)
}
