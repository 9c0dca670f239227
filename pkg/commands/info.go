package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about where focus keeps its data and how it is configured.",
		Example: `
focus info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(s *session) error {
				i := info.Info{
					Config:  s.cfg,
					Service: s.svc,
				}
				return i.Do(cmd.Context())
			})
		},
	}

	topLevel.AddCommand(cmd)
}
