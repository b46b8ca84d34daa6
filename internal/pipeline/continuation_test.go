// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiscope/wikiscope/internal/models"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		params     ParsedRequest
		wantLimit  int
		wantOffset string
	}{
		{
			name:      "defaults",
			params:    ParsedRequest{},
			wantLimit: 50,
		},
		{
			name:      "explicit limit",
			params:    ParsedRequest{"limit": "25"},
			wantLimit: 25,
		},
		{
			name:      "limit clamped to maximum",
			params:    ParsedRequest{"limit": "9999"},
			wantLimit: 500,
		},
		{
			name:      "limit clamped to one",
			params:    ParsedRequest{"limit": "0"},
			wantLimit: 1,
		},
		{
			name:      "unparseable limit falls back to default",
			params:    ParsedRequest{"limit": "lots"},
			wantLimit: 50,
		},
		{
			name:       "continuation token offset",
			params:     ParsedRequest{"offset": "2024-06-01T12:30:00"},
			wantLimit:  50,
			wantOffset: "2024-06-01T12:30:00",
		},
		{
			name:       "plain date offset",
			params:     ParsedRequest{"offset": "2024-06-01"},
			wantLimit:  50,
			wantOffset: "2024-06-01T00:00:00",
		},
		{
			name:      "unparseable offset ignored",
			params:    ParsedRequest{"offset": "yesterday"},
			wantLimit: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ParsePagination(tt.params, 50, 500)

			assert.Equal(t, tt.wantLimit, state.Limit)
			if tt.wantOffset == "" {
				assert.False(t, state.HasOffset)
			} else {
				require.True(t, state.HasOffset)
				assert.Equal(t, tt.wantOffset, state.Offset.Format(ContinuationFormat))
			}
		})
	}
}

func revisionsAt(times ...string) []models.Revision {
	revs := make([]models.Revision, len(times))
	for i, raw := range times {
		ts, err := time.ParseInLocation(ContinuationFormat, raw, time.UTC)
		if err != nil {
			panic(err)
		}
		revs[i] = models.Revision{
			ID:        int64(1000 - i),
			Timestamp: ts,
			Namespace: 1,
			PageTitle: "Example",
		}
	}
	return revs
}

func TestBuildContinuation(t *testing.T) {
	project := enwiki()

	t.Run("full page yields a token", func(t *testing.T) {
		revs := revisionsAt("2024-06-03T10:00:00", "2024-06-02T09:00:00", "2024-06-01T08:00:00")

		out, token := BuildContinuation(project, revs, 3)

		assert.Equal(t, "2024-06-01T08:00:00", token)
		for _, rev := range out {
			assert.Equal(t, "Talk:Example", rev.FullPageTitle)
			assert.Equal(t, "Example", rev.PageTitle, "original title must be preserved")
		}
	})

	t.Run("short page yields no token", func(t *testing.T) {
		revs := revisionsAt("2024-06-03T10:00:00", "2024-06-02T09:00:00")

		_, token := BuildContinuation(project, revs, 3)

		assert.Empty(t, token)
	})

	t.Run("empty result set", func(t *testing.T) {
		out, token := BuildContinuation(project, nil, 3)

		assert.Empty(t, out)
		assert.Empty(t, token)
	})

	t.Run("tokens never increase across pages", func(t *testing.T) {
		page1 := revisionsAt("2024-06-03T10:00:00", "2024-06-02T09:00:00")
		page2 := revisionsAt("2024-06-02T09:00:00", "2024-06-01T08:00:00")

		_, token1 := BuildContinuation(project, page1, 2)
		_, token2 := BuildContinuation(project, page2, 2)

		require.NotEmpty(t, token1)
		require.NotEmpty(t, token2)
		assert.LessOrEqual(t, token2, token1)
	})
}
