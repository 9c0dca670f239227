package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
	"tableflip.dev/focus/pkg/printers"
	"tableflip.dev/focus/pkg/runner/track"
)

func addHabit(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track daily habits",
		Example: `
focus habit add "Read 20 pages"
focus habit check read
focus habit check read --on yesterday
focus habit uncheck read
focus habit ls -k
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				return listHabits(s, io)
			})
		},
	}
	options.AddShowIDArgs(cmd, io)

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				h, res, err := s.svc.AddHabit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				if output.JSON {
					return output.Print(h)
				}
				pp := printers.PrettyPrint{ShowID: io.ShowID}
				pp.NewLine()
				pp.Habits(res.Snapshot.Habits)
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show today's habits and streaks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				return listHabits(s, io)
			})
		},
	}

	archive := &cobra.Command{
		Use:   "archive <habit>",
		Short: "Stop tracking a habit; its history is kept",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: habitCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveHabit(s.svc.Habits(), args[0])
				if err != nil {
					return err
				}
				res, err := s.svc.ArchiveHabit(cmd.Context(), id)
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				_, _ = fmt.Fprintln(color.Output, "Archived.")
				return nil
			})
		},
	}

	options.AddShowIDArgs(ls, io)
	options.AddShowIDArgs(add, io)

	cmd.AddCommand(add, ls, archive,
		checkCommand("check", "Check a habit in for a day", false),
		checkCommand("uncheck", "Remove a day's check-in", true),
	)
	topLevel.AddCommand(cmd)
}

func checkCommand(use, short string, undo bool) *cobra.Command {
	oo := &options.OnOptions{}
	var quiet bool

	cmd := &cobra.Command{
		Use:   use + " <habit>",
		Short: short,
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: habitCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveHabit(s.svc.Habits(), args[0])
				if err != nil {
					return err
				}
				on, err := oo.GetOn(s.svc.Snapshot().Today)
				if err != nil {
					return err
				}
				t := track.Track{
					HabitID: id,
					Date:    on,
					Undo:    undo,
					Quiet:   quiet || output.JSON,
					Service: s.svc,
				}
				if err := t.Do(cmd.Context()); err != nil {
					return err
				}
				if output.JSON {
					return output.Print(s.svc.Snapshot().Habits)
				}
				return nil
			})
		},
	}
	options.AddOnArgs(cmd, oo)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the habit list afterwards.")
	return cmd
}

func listHabits(s *session, io *options.IDOptions) error {
	habits := s.svc.Snapshot().Habits
	if output.JSON {
		return output.Print(habits)
	}
	pp := printers.PrettyPrint{ShowID: io.ShowID}
	pp.NewLine()
	pp.Habits(habits)
	return nil
}

func addStreak(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "streak",
		Aliases: []string{"streaks"},
		Short:   "Show current and longest streaks for every habit",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				views := s.svc.Streaks()
				if output.JSON {
					return output.Print(views)
				}
				pp := printers.PrettyPrint{}
				pp.NewLine()
				pp.Streaks(views)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}
