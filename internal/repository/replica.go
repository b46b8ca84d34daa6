// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/wikiscope/wikiscope/internal/logging"
	"github.com/wikiscope/wikiscope/internal/metrics"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

// mwTimestampFormat is the packed timestamp format the replica tables use.
const mwTimestampFormat = "20060102150405"

// Replica is the shared handle every repository queries through. It wraps
// the replica connection with a circuit breaker so a struggling replica
// degrades requests instead of piling up connections.
type Replica struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker[*sql.Rows]
}

// NewReplica wraps db with the query breaker.
// Breaker policy: opens at a 60% failure rate over at least 10 requests,
// allows 3 probes in half-open state, retries after 30 seconds.
func NewReplica(db *sql.DB) *Replica {
	const cbName = "replica"

	metrics.SetCircuitBreakerState(cbName, 0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*sql.Rows](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("from", from.String()).Str("to", to.String()).Msg("replica breaker state change")
			metrics.SetCircuitBreakerState(name, breakerStateValue(to))
		},
	})

	return &Replica{db: db, cb: cb}
}

// Query runs a replica query through the breaker and records its duration
// under the operation label.
func (r *Replica) Query(ctx context.Context, operation, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.cb.Execute(func() (*sql.Rows, error) {
		return r.db.QueryContext(ctx, query, args...)
	})
	metrics.RecordReplicaQuery(operation, time.Since(start), err)
	if err != nil {
		return nil, classifyReplicaError(operation, err)
	}
	return rows, nil
}

// classifyReplicaError maps transport-level failures onto the pipeline's
// downstream sentinels so callers can degrade instead of hard-failing.
func classifyReplicaError(operation string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%s: %w", operation, pipeline.ErrDownstreamUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", operation, pipeline.ErrDownstreamTimeout)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// projectTable addresses a per-project table on the replica host.
func projectTable(databaseName, table string) string {
	return fmt.Sprintf("`%s_p`.`%s`", databaseName, table)
}

// parseMWTimestamp decodes a packed replica timestamp into UTC.
func parseMWTimestamp(raw string) (time.Time, error) {
	return time.ParseInLocation(mwTimestampFormat, raw, time.UTC)
}

// formatMWTimestamp encodes t for use in a replica query predicate.
func formatMWTimestamp(t time.Time) string {
	return t.UTC().Format(mwTimestampFormat)
}
