package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/heatmap"
	"tableflip.dev/focus/pkg/printers"
)

func addHeatmap(topLevel *cobra.Command) {
	var year int

	cmd := &cobra.Command{
		Use:     "heatmap",
		Aliases: []string{"cal"},
		Short:   "Show a year of activity as a heatmap",
		Example: `
focus heatmap
focus heatmap --year 2025
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year < 0 {
				return fmt.Errorf("invalid year %d", year)
			}
			return withService(cmd.Context(), func(s *session) error {
				g := s.svc.Grid(year)
				if output.JSON {
					return output.Print(g)
				}
				pp := printers.PrettyPrint{}
				pp.NewLine()
				pp.Heatmap(g)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Calendar year to show, defaults to this year.")

	topLevel.AddCommand(cmd)
}

func addStats(topLevel *cobra.Command) {
	var period string

	periods := make([]string, 0, len(heatmap.Periods()))
	for _, p := range heatmap.Periods() {
		periods = append(periods, string(p))
	}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise activity for the current day, week, month, quarter or year",
		Example: `
focus stats
focus stats --period month
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := heatmap.ParsePeriod(period)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(s *session) error {
				r, err := s.svc.Recap(p)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.Print(r)
				}
				pp := printers.PrettyPrint{}
				pp.NewLine()
				pp.Recap(r)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", string(heatmap.Week), "One of "+strings.Join(periods, ", ")+".")
	_ = cmd.RegisterFlagCompletionFunc("period", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return periods, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
