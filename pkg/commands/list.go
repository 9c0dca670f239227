package commands

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
	"tableflip.dev/focus/pkg/runner/get"
)

func addList(topLevel *cobra.Command) {
	ho := &options.HorizonOptions{}
	io := &options.IDOptions{}
	var watch bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "get"},
		Short:   "Show horizons and today's habits",
		Example: `
focus ls
focus ls -z daily -k
focus ls --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := ho.Get()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return withService(ctx, func(s *session) error {
				if output.JSON {
					return output.Print(s.svc.Snapshot())
				}
				g := get.Get{
					ShowID:  io.ShowID,
					Horizon: id,
					Watch:   watch,
					Service: s.svc,
					Log:     s.log,
				}
				return g.Do(ctx)
			})
		},
	}
	options.AddHorizonArgs(cmd, ho, "")
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and redraw when the store changes.")

	topLevel.AddCommand(cmd)
}
