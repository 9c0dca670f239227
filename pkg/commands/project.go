package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
	"tableflip.dev/focus/pkg/printers"
)

func addProject(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects tasks can belong to",
		Example: `
focus project add "Kitchen remodel"
focus project ls
focus project complete kitchen
focus project rm kitchen --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				return listProjects(s, io)
			})
		},
	}
	options.AddShowIDArgs(cmd, io)

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				p, res, err := s.svc.AddProject(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				if output.JSON {
					return output.Print(p)
				}
				_, _ = fmt.Fprintf(color.Output, "Created project %q.\n", p.Name)
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				return listProjects(s, io)
			})
		},
	}

	complete := &cobra.Command{
		Use:     "complete <project>",
		Aliases: []string{"done"},
		Short:   "Mark a project completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveProject(s.svc.Snapshot().Projects, args[0])
				if err != nil {
					return err
				}
				res, err := s.svc.CompleteProject(cmd.Context(), id)
				if err != nil {
					return err
				}
				printers.Warn(res.Warning)
				return nil
			})
		},
	}

	co := &options.ConfirmOptions{}
	rm := &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"delete"},
		Short:   "Delete a project; its tasks are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(s *session) error {
				id, err := resolveProject(s.svc.Snapshot().Projects, args[0])
				if err != nil {
					return err
				}
				res, err := s.svc.DeleteProject(cmd.Context(), id, co.Yes)
				if err != nil {
					return err
				}
				if res.Pending != nil {
					if !confirm(cmd, res.Pending.Prompt) {
						_, _ = fmt.Fprintln(color.Output, "Nothing deleted.")
						return nil
					}
					if res, err = s.svc.Confirm(cmd.Context(), *res.Pending); err != nil {
						return err
					}
				}
				printers.Warn(res.Warning)
				return nil
			})
		},
	}
	options.AddConfirmArgs(rm, co)

	options.AddShowIDArgs(ls, io)

	cmd.AddCommand(add, ls, complete, rm)
	topLevel.AddCommand(cmd)
}

func listProjects(s *session, io *options.IDOptions) error {
	snap := s.svc.Snapshot()
	if output.JSON {
		return output.Print(snap.Projects)
	}
	openTasks := make(map[string]int)
	for _, h := range snap.Horizons {
		for _, t := range h.Tasks {
			if t.ProjectID != "" && t.Open() {
				openTasks[t.ProjectID]++
			}
		}
	}

	pp := printers.PrettyPrint{ShowID: io.ShowID}
	pp.NewLine()
	pp.Title("Projects")
	tbl := uitable.New()
	tbl.Separator = "  "
	done := color.New(color.FgGreen)
	for _, p := range snap.Projects {
		mark := "•"
		if p.Completed {
			mark = done.Sprint("x")
		}
		row := []interface{}{mark, p.Name, fmt.Sprintf("%d open", openTasks[p.ID])}
		if io.ShowID {
			row = append([]interface{}{p.ID}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
	return nil
}
