// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"strconv"
	"time"

	"github.com/wikiscope/wikiscope/internal/models"
)

// PaginationState carries the page size and the optional continuation
// offset for descending-chronological result sets.
type PaginationState struct {
	Limit     int
	Offset    time.Time
	HasOffset bool
}

// ParsePagination reads limit and offset from the request parameters.
// The limit defaults to defaultLimit and is clamped to [1, maxLimit].
// The offset accepts a continuation token or a plain date.
func ParsePagination(p ParsedRequest, defaultLimit, maxLimit int) PaginationState {
	state := PaginationState{Limit: defaultLimit}

	if raw := p.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			state.Limit = limit
		}
	}
	if state.Limit < 1 {
		state.Limit = 1
	}
	if state.Limit > maxLimit {
		state.Limit = maxLimit
	}

	if raw := p.Get("offset"); raw != "" {
		for _, layout := range []string{ContinuationFormat, DateFormat} {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				state.Offset = t
				state.HasOffset = true
				break
			}
		}
	}

	return state
}

// BuildContinuation enriches revision records with their full page titles
// and computes the continuation token for cursor-based backward pagination.
//
// Each record gains a FullPageTitle combining the localized namespace name
// and the unprefixed title; the original namespace and title fields are
// preserved. When the result set fills the page exactly, the last record's
// timestamp becomes the token the caller passes back as the next request's
// offset. Tokens are monotonically non-increasing across descending pages.
func BuildContinuation(project *models.Project, revisions []models.Revision, limit int) ([]models.Revision, string) {
	for i := range revisions {
		rev := &revisions[i]
		rev.FullPageTitle = PrefixedTitle(project, NamespaceID(rev.Namespace), rev.PageTitle)
	}

	if limit > 0 && len(revisions) == limit {
		last := revisions[len(revisions)-1]
		return revisions, last.Timestamp.UTC().Format(ContinuationFormat)
	}
	return revisions, ""
}
