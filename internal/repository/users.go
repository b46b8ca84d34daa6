// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package repository

import (
	"context"
	"strings"

	"github.com/wikiscope/wikiscope/internal/models"
)

// UserRepository answers account questions against per-project replica
// tables.
type UserRepository struct {
	replica *Replica

	// optInPage is the opt-in marker page title pattern with a {user}
	// placeholder, e.g. "User:{user}/EditCounterOptIn.js".
	optInPage string
}

// NewUserRepository returns a replica-backed user lookup.
func NewUserRepository(replica *Replica, optInPage string) *UserRepository {
	return &UserRepository{replica: replica, optInPage: optInPage}
}

// UserExists reports whether a named account exists on the project.
func (r *UserRepository) UserExists(ctx context.Context, project *models.Project, username string) (bool, error) {
	query := `SELECT 1 FROM ` + projectTable(project.DatabaseName, "user") + ` WHERE user_name = ? LIMIT 1`

	rows, err := r.replica.Query(ctx, "user_exists", query, username)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	return rows.Next(), rows.Err()
}

// UserEditCount returns the account's system edit count. A missing account
// counts as zero.
func (r *UserRepository) UserEditCount(ctx context.Context, project *models.Project, username string) (int64, error) {
	query := `SELECT COALESCE(user_editcount, 0) FROM ` + projectTable(project.DatabaseName, "user") + ` WHERE user_name = ? LIMIT 1`

	rows, err := r.replica.Query(ctx, "user_edit_count", query, username)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, rows.Err()
	}
	var count int64
	if err := rows.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UserIsOptedIn reports whether the user's opt-in marker page exists on
// the project.
func (r *UserRepository) UserIsOptedIn(ctx context.Context, project *models.Project, username string) (bool, error) {
	title := optInDBKey(r.optInPage, username)
	query := `SELECT 1 FROM ` + projectTable(project.DatabaseName, "page") + ` WHERE page_namespace = 2 AND page_title = ? LIMIT 1`

	rows, err := r.replica.Query(ctx, "user_opted_in", query, title)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	return rows.Next(), rows.Err()
}

// optInDBKey turns the opt-in page pattern into the replica's database key
// for the user namespace: the "User:" prefix is dropped and spaces become
// underscores.
func optInDBKey(pattern, username string) string {
	title := strings.Replace(pattern, "{user}", username, 1)
	if _, rest, found := strings.Cut(title, ":"); found {
		title = rest
	}
	return strings.ReplaceAll(title, " ", "_")
}
