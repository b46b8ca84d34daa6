// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"testing"
	"time"
)

// now is fixed so the clamping behavior is deterministic.
var testNow = time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)

func day(value string) time.Time {
	t, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveDateWindow(t *testing.T) {
	today := day("2024-06-15")

	tests := []struct {
		name          string
		rawStart      string
		rawEnd        string
		opts          WindowOptions
		wantStart     time.Time
		wantEnd       time.Time
		wantTruncated bool
	}{
		{
			name:      "both given",
			rawStart:  "2024-01-01",
			rawEnd:    "2024-02-01",
			wantStart: day("2024-01-01"),
			wantEnd:   day("2024-02-01"),
		},
		{
			name:      "inverted range is swapped",
			rawStart:  "2020-02-10",
			rawEnd:    "2020-01-01",
			wantStart: day("2020-01-01"),
			wantEnd:   day("2020-02-10"),
		},
		{
			name:      "default window when nothing given",
			opts:      WindowOptions{DefaultDays: 20},
			wantStart: day("2024-05-26"),
			wantEnd:   today,
		},
		{
			name:      "missing start backfilled from end",
			rawEnd:    "2024-03-01",
			opts:      WindowOptions{DefaultDays: 10},
			wantStart: day("2024-02-20"),
			wantEnd:   day("2024-03-01"),
		},
		{
			name:      "missing end derived from start and clamped to today",
			rawStart:  "2024-06-10",
			opts:      WindowOptions{DefaultDays: 30},
			wantStart: day("2024-06-10"),
			wantEnd:   today,
		},
		{
			name:      "future dates clamp to today",
			rawStart:  "2030-01-01",
			rawEnd:    "2030-06-01",
			wantStart: today,
			wantEnd:   today,
		},
		{
			name:      "unparseable dates clamp to today",
			rawStart:  "not-a-date",
			rawEnd:    "also-bad",
			wantStart: today,
			wantEnd:   today,
		},
		{
			name:      "max days as fallback span",
			opts:      WindowOptions{MaxDays: 7},
			wantStart: day("2024-06-08"),
			wantEnd:   today,
		},
		{
			name:          "over-wide range truncated",
			rawStart:      "2023-01-01",
			rawEnd:        "2024-01-01",
			opts:          WindowOptions{MaxDays: 30},
			wantStart:     day("2023-12-02"),
			wantEnd:       day("2024-01-01"),
			wantTruncated: true,
		},
		{
			name:      "no span configured leaves single bound at today",
			rawStart:  "2024-01-01",
			wantStart: day("2024-01-01"),
			wantEnd:   today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, truncated := ResolveDateWindow(tt.rawStart, tt.rawEnd, tt.opts, testNow)

			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("start = %s, want %s", w.Start.Format(DateFormat), tt.wantStart.Format(DateFormat))
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("end = %s, want %s", w.End.Format(DateFormat), tt.wantEnd.Format(DateFormat))
			}
			if truncated != tt.wantTruncated {
				t.Errorf("truncated = %v, want %v", truncated, tt.wantTruncated)
			}
		})
	}
}

// The clamp invariant must hold for any combination of inputs.
func TestResolveDateWindow_ClampInvariant(t *testing.T) {
	today := day("2024-06-15")
	inputs := []string{"", "2024-01-01", "2030-12-31", "garbage", "1999-06-15"}
	optss := []WindowOptions{{}, {DefaultDays: 20}, {MaxDays: 10}, {DefaultDays: 5, MaxDays: 3}}

	for _, rawStart := range inputs {
		for _, rawEnd := range inputs {
			for _, opts := range optss {
				w, _ := ResolveDateWindow(rawStart, rawEnd, opts, testNow)

				if w.Start.After(w.End) {
					t.Errorf("start > end for (%q, %q, %+v): %v > %v", rawStart, rawEnd, opts, w.Start, w.End)
				}
				if w.End.After(today) {
					t.Errorf("end > today for (%q, %q, %+v): %v", rawStart, rawEnd, opts, w.End)
				}
				if opts.MaxDays > 0 && w.Days() > opts.MaxDays {
					t.Errorf("window wider than max for (%q, %q, %+v): %d days", rawStart, rawEnd, opts, w.Days())
				}
			}
		}
	}
}
