package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/commands/options"
	"tableflip.dev/focus/pkg/printers"
	"tableflip.dev/focus/pkg/runner/log"
)

var errNoBackdate = errors.New("journal entries are always written today; --on only selects which day to show")

func addJournal(topLevel *cobra.Command) {
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "journal [text]",
		Aliases: []string{"log"},
		Short:   "Write a journal entry, or show a day's entries",
		Example: `
focus journal "Shipped the planner, felt good."
focus journal
focus journal --on yesterday
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text != "" && oo.OnString != "" {
				return errNoBackdate
			}
			return withService(cmd.Context(), func(s *session) error {
				on, err := oo.GetOn(s.svc.Snapshot().Today)
				if err != nil {
					return err
				}
				if output.JSON {
					if text != "" {
						e, res, err := s.svc.WriteJournal(cmd.Context(), text)
						if err != nil {
							return err
						}
						printers.Warn(res.Warning)
						return output.Print(e)
					}
					return output.Print(s.svc.Journal(on))
				}
				l := log.Log{Text: text, On: on, Service: s.svc}
				return l.Do(cmd.Context())
			})
		},
	}
	options.AddOnArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}
