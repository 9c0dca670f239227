package options

import (
	"testing"

	"tableflip.dev/focus/pkg/datekey"
)

func TestGetOn(t *testing.T) {
	today := datekey.MustParse("2026-10-16")
	tests := map[string]struct {
		in      string
		want    datekey.Key
		wantErr bool
	}{
		"empty":           {in: "", want: today},
		"today":           {in: "Today", want: today},
		"yesterday":       {in: "yesterday", want: datekey.MustParse("2026-10-15")},
		"iso":             {in: "2026-02-28", want: datekey.MustParse("2026-02-28")},
		"short this year": {in: "3/1", want: datekey.MustParse("2026-03-01")},
		"short is past":   {in: "12/24", want: datekey.MustParse("2025-12-24")},
		"garbage":         {in: "next tuesday", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := &OnOptions{OnString: tc.in}
			got, err := o.GetOn(today)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("GetOn(%q) = %s, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetOn(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("GetOn(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}
