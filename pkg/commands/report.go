package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/printers"
	"tableflip.dev/focus/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "List what got done over a recent window",
		Long: `Report lists completed tasks, habit check-ins, journal entries and
completed projects from the activity ledger, grouped by kind, and completed
tasks also by the horizon they were finished in.`,
		Example: `
focus report
focus report --last today
focus report --last 2w3d
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				w, err := timeutil.Resolve(last, s.svc.Now())
				if err != nil {
					return err
				}
				r, err := s.svc.Report(cmd.Context(), w.Since, w.Until)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Print(r)
				}
				pp := printers.PrettyPrint{}
				pp.NewLine()
				pp.Report(r, w.Label)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, `Window to report: "today" or a duration such as 36h, 3d, 2w.`)

	topLevel.AddCommand(cmd)
}
