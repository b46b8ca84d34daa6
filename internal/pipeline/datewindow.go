// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import "time"

const (
	// DateFormat is the wire format of start/end parameters.
	DateFormat = "2006-01-02"

	// ContinuationFormat is the canonical timestamp format of continuation
	// tokens and offset parameters.
	ContinuationFormat = "2006-01-02T15:04:05"
)

// DateWindow is a concrete, clamped [Start, End] window.
// Invariant: Start <= End <= today's midnight (UTC).
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the window width in whole days.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// WindowOptions configures date window resolution.
type WindowOptions struct {
	// DefaultDays is applied when one side of the window is missing.
	DefaultDays int

	// MaxDays is a hard cap on the window width; it doubles as the default
	// span when DefaultDays is zero. Zero means uncapped.
	MaxDays int
}

// ResolveDateWindow turns optional raw start/end strings into a concrete,
// clamped window. Inputs are never rejected: unparseable or future dates
// are clamped to today, inverted ranges are swapped, and over-wide ranges
// are truncated. truncated reports whether the MaxDays cap was applied, so
// the caller can surface a non-fatal warning.
func ResolveDateWindow(rawStart, rawEnd string, opts WindowOptions, now time.Time) (w DateWindow, truncated bool) {
	today := midnight(now.UTC())

	startTime, startGiven := parseDay(rawStart, today)
	endTime, endGiven := parseDay(rawEnd, today)

	span := opts.DefaultDays
	if span == 0 {
		span = opts.MaxDays
	}

	if !startGiven && span > 0 {
		startTime = endTime.AddDate(0, 0, -span)
	}
	if !endGiven && span > 0 {
		endTime = startTime.AddDate(0, 0, span)
		if endTime.After(today) {
			endTime = today
		}
	}

	// Both bounds were supplied but in the wrong order.
	if startGiven && endGiven && startTime.After(endTime) {
		startTime, endTime = endTime, startTime
	}

	if opts.MaxDays > 0 {
		if days := int(endTime.Sub(startTime).Hours() / 24); days > opts.MaxDays {
			startTime = endTime.AddDate(0, 0, -opts.MaxDays)
			truncated = true
		}
	}

	return DateWindow{Start: startTime, End: endTime}, truncated
}

// parseDay parses a YYYY-MM-DD value clamped to today. Absent or
// unparseable values resolve to today; given reports whether a raw value
// was supplied at all, parseable or not, since only absent values are
// eligible for the default-span substitution.
func parseDay(raw string, today time.Time) (t time.Time, given bool) {
	if raw == "" {
		return today, false
	}
	parsed, err := time.ParseInLocation(DateFormat, raw, time.UTC)
	if err != nil || parsed.After(today) {
		return today, true
	}
	return parsed, true
}

// midnight truncates t to the start of its day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
