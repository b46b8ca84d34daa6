// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	"github.com/wikiscope/wikiscope/internal/pipeline"
)

func TestClassifyReplicaError(t *testing.T) {
	t.Run("open breaker maps to unavailable", func(t *testing.T) {
		err := classifyReplicaError("find_project", gobreaker.ErrOpenState)
		assert.ErrorIs(t, err, pipeline.ErrDownstreamUnavailable)
	})

	t.Run("half-open overflow maps to unavailable", func(t *testing.T) {
		err := classifyReplicaError("find_project", gobreaker.ErrTooManyRequests)
		assert.ErrorIs(t, err, pipeline.ErrDownstreamUnavailable)
	})

	t.Run("deadline maps to timeout", func(t *testing.T) {
		err := classifyReplicaError("latest_edits", context.DeadlineExceeded)
		assert.ErrorIs(t, err, pipeline.ErrDownstreamTimeout)
	})

	t.Run("other errors pass through wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := classifyReplicaError("user_exists", cause)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, pipeline.ErrDownstreamUnavailable)
	})
}

func TestMWTimestamps(t *testing.T) {
	ts, err := parseMWTimestamp("20240601083000")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), ts)
	assert.Equal(t, "20240601083000", formatMWTimestamp(ts))

	_, err = parseMWTimestamp("not-a-timestamp")
	assert.Error(t, err)
}
