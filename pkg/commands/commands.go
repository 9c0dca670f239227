// Package commands builds the focus command tree.
package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Plan each day against capacity-limited horizons, track habits and see your activity.",
		Long: `focus keeps tasks in five horizons: intake, quarterly, monthly, weekly and
daily. Every horizon but intake has a capacity. Each morning "focus plan"
turns the time and energy you have into a limit of one to three daily focus
items and lets you pull tasks in or push them back out.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addList(topLevel)
	addMove(topLevel)
	addComplete(topLevel)
	addPrimary(topLevel)
	addEdit(topLevel)
	addRemove(topLevel)
	addPlan(topLevel)
	addCandidates(topLevel)
	addHabit(topLevel)
	addStreak(topLevel)
	addJournal(topLevel)
	addProject(topLevel)
	addHeatmap(topLevel)
	addStats(topLevel)
	addReport(topLevel)
	addExport(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
