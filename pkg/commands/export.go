package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/export"
)

func addExport(topLevel *cobra.Command) {
	var (
		format string
		file   string
	)

	formats := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole store as one document",
		Example: `
focus export > focus.json
focus export --format yaml -f backup.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(s *session) error {
				var w io.Writer = cmd.OutOrStdout()
				if file != "" {
					out, err := os.Create(file)
					if err != nil {
						return err
					}
					defer out.Close()
					w = out
				}
				if err := export.Encode(w, s.svc.Document(), f); err != nil {
					return err
				}
				if file != "" {
					_, _ = fmt.Fprintf(color.Error, "Wrote %s.\n", file)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "One of "+strings.Join(formats, ", ")+".")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to a file instead of stdout.")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
