package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/printers"
	"tableflip.dev/focus/pkg/runner/add"
	"tableflip.dev/focus/pkg/runner/complete"
)

func addAdd(topLevel *cobra.Command) {
	ho := &options.HorizonOptions{}
	io := &options.IDOptions{}
	var project string
	var primary bool

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to a horizon (intake by default)",
		Example: `
focus add call the plumber
focus add --horizon weekly draft the proposal
focus add -z daily --primary --project launch write the announcement
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ho.Get()
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(s *session) error {
				var projectID string
				if project != "" {
					if projectID, err = resolveProject(s.svc.Snapshot().Projects, project); err != nil {
						return err
					}
				}
				a := add.Add{
					Horizon:   id,
					Text:      strings.Join(args, " "),
					ProjectID: projectID,
					Primary:   primary,
					ShowID:    io.ShowID,
					Service:   s.svc,
				}
				return a.Do(cmd.Context())
			})
		},
	}
	options.AddHorizonArgs(cmd, ho, horizon.Intake)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name or id for the task.")
	cmd.Flags().BoolVar(&primary, "primary", false, "Make the task its horizon's primary.")

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command) {
	ho := &options.HorizonOptions{}

	cmd := &cobra.Command{
		Use:   "move <task id> --horizon <target>",
		Short: "Move a task to another horizon",
		Example: `
focus move 3f2a --horizon daily
focus move 3f2a -z quarterly
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := ho.Get()
			if err != nil {
				return err
			}
			if to == "" {
				return errors.New("--horizon is required")
			}
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveTask(s.svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				t, res, err := s.svc.MoveTask(cmd.Context(), id, "", to)
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				_, _ = fmt.Fprintf(color.Output, "Moved %q to %s.\n", t.Text, to)
				return nil
			})
		},
	}
	options.AddHorizonArgs(cmd, ho, "")

	topLevel.AddCommand(cmd)
}

func addComplete(topLevel *cobra.Command) {
	for _, c := range []struct {
		use     string
		aliases []string
		short   string
		reopen  bool
	}{
		{"complete <task id>", []string{"done"}, "Mark a task completed", false},
		{"uncomplete <task id>", []string{"reopen"}, "Reopen a completed task (its horizon must have room)", true},
	} {
		reopen := c.reopen
		cmd := &cobra.Command{
			Use:     c.use,
			Aliases: c.aliases,
			Short:   c.short,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(cmd.Context(), func(s *session) error {
					id, err := resolveTask(s.svc.Snapshot(), args[0])
					if err != nil {
						return err
					}
					r := complete.Complete{ID: id, Reopen: reopen, Service: s.svc}
					return r.Do(cmd.Context())
				})
			},
		}
		topLevel.AddCommand(cmd)
	}
}

func addPrimary(topLevel *cobra.Command) {
	ho := &options.HorizonOptions{}
	var clearPrimary bool

	cmd := &cobra.Command{
		Use:   "primary <task id>",
		Short: "Make a task the primary item of its horizon",
		Example: `
focus primary 3f2a
focus primary --clear -z daily
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if clearPrimary {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				if clearPrimary {
					id, err := ho.Get()
					if err != nil {
						return err
					}
					res, err := s.svc.ClearPrimary(cmd.Context(), id)
					if err != nil {
						return err
					}
					printers.Warn(res.Warning)
					return nil
				}
				id, err := resolveTask(s.svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				res, err := s.svc.SetPrimary(cmd.Context(), id)
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				t, h, _ := res.Snapshot.Locate(id)
				_, _ = fmt.Fprintf(color.Output, "%q is now the %s primary.\n", t.Text, h)
				return nil
			})
		},
	}
	options.AddHorizonArgs(cmd, ho, horizon.Daily)
	cmd.Flags().BoolVar(&clearPrimary, "clear", false, "Clear the primary of --horizon instead.")

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "edit <task id> <text>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveTask(s.svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				_, res, err := s.svc.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "rm <task id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveTask(s.svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				_, res, err := s.svc.RemoveTask(cmd.Context(), id, false)
				if err != nil {
					return err
				}
				if res.Pending == nil {
					return nil
				}
				if !co.Yes && !confirm(cmd, res.Pending.Prompt) {
					_, _ = fmt.Fprintln(color.Output, "Nothing deleted.")
					return nil
				}
				res, err = s.svc.Confirm(cmd.Context(), *res.Pending)
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				return nil
			})
		},
	}
	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
