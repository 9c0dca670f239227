// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/horizon"
)

// HorizonOptions selects a horizon by name.
type HorizonOptions struct {
	Horizon string
}

func AddHorizonArgs(cmd *cobra.Command, o *HorizonOptions, def horizon.ID) {
	cmd.Flags().StringVarP(&o.Horizon, "horizon", "z", string(def),
		"Horizon: intake, quarterly, monthly, weekly or daily (also inbox, quarter, month, week, today).")
	_ = cmd.RegisterFlagCompletionFunc("horizon", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(horizon.All()))
		for _, id := range horizon.All() {
			names = append(names, string(id))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// Get returns the chosen horizon; empty stays empty.
func (o *HorizonOptions) Get() (horizon.ID, error) {
	if o.Horizon == "" {
		return "", nil
	}
	return horizon.ParseID(o.Horizon)
}
