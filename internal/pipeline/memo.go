// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"context"

	"github.com/wikiscope/wikiscope/internal/models"
)

// Memo is a request-scoped cache of lookup results that several gate
// checks may need. It must be created per request and never shared across
// requests; it is not safe for concurrent use.
type Memo struct {
	editCounts map[string]int64
	optIns     map[string]bool
}

// NewMemo creates an empty request-scoped memo.
func NewMemo() *Memo {
	return &Memo{
		editCounts: make(map[string]int64),
		optIns:     make(map[string]bool),
	}
}

// memoKey scopes a user to a project.
func memoKey(project *models.Project, username string) string {
	return project.DatabaseName + ":" + username
}

// EditCount returns the user's edit count on the project, fetching it at
// most once per request.
func (m *Memo) EditCount(ctx context.Context, users UserLookup, project *models.Project, username string) (int64, error) {
	key := memoKey(project, username)
	if count, ok := m.editCounts[key]; ok {
		return count, nil
	}
	count, err := users.UserEditCount(ctx, project, username)
	if err != nil {
		return 0, err
	}
	m.editCounts[key] = count
	return count, nil
}

// OptedIn returns whether the user has opted in to restricted statistics
// on the project, fetching it at most once per request.
func (m *Memo) OptedIn(ctx context.Context, users UserLookup, project *models.Project, username string) (bool, error) {
	key := memoKey(project, username)
	if optedIn, ok := m.optIns[key]; ok {
		return optedIn, nil
	}
	optedIn, err := users.UserIsOptedIn(ctx, project, username)
	if err != nil {
		return false, err
	}
	m.optIns[key] = optedIn
	return optedIn, nil
}
