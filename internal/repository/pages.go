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

// PageRepository resolves page titles against per-project replica tables.
type PageRepository struct {
	replica *Replica
}

// NewPageRepository returns a replica-backed page lookup.
func NewPageRepository(replica *Replica) *PageRepository {
	return &PageRepository{replica: replica}
}

// FindPage looks up a full page title on a project. The localized
// namespace prefix, if any, selects the namespace; the remainder becomes
// the database key. A nil page with nil error means no such page exists.
func (r *PageRepository) FindPage(ctx context.Context, project *models.Project, title string) (*models.Page, error) {
	nsID, dbKey := splitTitle(project, title)

	query := `SELECT page_namespace, page_title FROM ` + projectTable(project.DatabaseName, "page") + ` WHERE page_namespace = ? AND page_title = ? LIMIT 1`

	rows, err := r.replica.Query(ctx, "find_page", query, nsID, dbKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var ns int
	var key string
	if err := rows.Scan(&ns, &key); err != nil {
		return nil, err
	}

	return &models.Page{
		Title:       prefixedFromDBKey(project, ns, key),
		NamespaceID: ns,
	}, nil
}

// splitTitle separates the localized namespace prefix from a full title
// and renders the remainder as a database key.
func splitTitle(project *models.Project, title string) (int, string) {
	title = strings.TrimSpace(title)

	if prefix, rest, found := strings.Cut(title, ":"); found {
		for id, name := range project.Namespaces {
			if id != 0 && name == prefix {
				return id, strings.ReplaceAll(rest, " ", "_")
			}
		}
	}
	return 0, strings.ReplaceAll(title, " ", "_")
}

// prefixedFromDBKey reverses splitTitle for display.
func prefixedFromDBKey(project *models.Project, ns int, dbKey string) string {
	title := strings.ReplaceAll(dbKey, "_", " ")
	if ns == 0 {
		return title
	}
	if name := project.NamespaceName(ns); name != "" {
		return name + ":" + title
	}
	return title
}
