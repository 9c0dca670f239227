package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/focus/pkg/datekey"
)

const layoutISOShort = "1/2"

// OnOptions picks a calendar day.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a day, example: --on="2026-02-28", --on="2/28" or --on=yesterday.`)
}

// GetOn resolves the flag against today. Empty means today. A short "1/2"
// date is in today's year; unlike scheduling, a check-in never looks
// forward, so a short date after today means last year.
func (o *OnOptions) GetOn(today datekey.Key) (datekey.Key, error) {
	raw := strings.TrimSpace(strings.ToLower(o.OnString))
	switch raw {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	if k, err := datekey.Parse(raw); err == nil {
		return k, nil
	}
	t, err := time.Parse(layoutISOShort, raw)
	if err != nil {
		return "", fmt.Errorf("invalid day %q (use YYYY-MM-DD or M/D)", o.OnString)
	}
	k := datekey.Of(today.Year(), t.Month(), t.Day())
	if k.After(today) {
		k = datekey.Of(today.Year()-1, t.Month(), t.Day())
	}
	return k, nil
}
