// Package timeutil parses the look-back windows used by the report command.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/focus/pkg/datekey"
)

// DefaultWindow is used when no window is given.
const DefaultWindow = "1w"

const day = 24 * time.Hour

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units   = map[string]time.Duration{
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": day, "day": day, "days": day,
		"w": 7 * day, "wk": 7 * day, "wks": 7 * day, "week": 7 * day, "weeks": 7 * day,
	}
)

// Window is a closed time range ending now.
type Window struct {
	Since time.Time
	Until time.Time
	// Label is the canonical form of the input, e.g. "1w2d" or "today".
	Label string
}

// Resolve turns input into a window ending at now. Besides durations such as
// "3d" or "1w2d6h" it accepts "today", which starts at local midnight.
func Resolve(input string, now time.Time) (Window, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		in = DefaultWindow
	}
	if in == "today" {
		return Window{Since: datekey.FromTime(now).Time(), Until: now, Label: in}, nil
	}
	d, label, err := ParseDuration(in)
	if err != nil {
		return Window{}, err
	}
	return Window{Since: now.Add(-d), Until: now, Label: label}, nil
}

// ParseDuration sums week, day and hour segments and returns the total with
// its canonical label.
func ParseDuration(input string) (time.Duration, string, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		rest = DefaultWindow
	}
	var total time.Duration
	for rest != "" {
		m := segment.FindStringSubmatch(rest)
		if m == nil {
			return 0, "", fmt.Errorf("timeutil: invalid window segment %q", strings.TrimSpace(rest))
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: unsupported window unit %q (use h, d or w)", m[2])
		}
		total += time.Duration(n) * unit
		rest = strings.TrimSpace(rest[len(m[0]):])
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: window must be longer than zero")
	}
	return total, Label(total), nil
}

// Label renders d in w/d/h tokens, dropping anything below an hour.
func Label(d time.Duration) string {
	var b strings.Builder
	for _, u := range []struct {
		token string
		size  time.Duration
	}{{"w", 7 * day}, {"d", day}, {"h", time.Hour}} {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.token)
			d -= n * u.size
		}
	}
	if b.Len() == 0 {
		return "0h"
	}
	return b.String()
}
