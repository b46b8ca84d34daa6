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

// ProjectRepository resolves projects against the meta database, which
// lists every wiki on the replica host together with its localized
// namespace names.
type ProjectRepository struct {
	replica *Replica
}

// NewProjectRepository returns a meta-database backed project lookup.
func NewProjectRepository(replica *Replica) *ProjectRepository {
	return &ProjectRepository{replica: replica}
}

const findProjectQuery = `
SELECT dbname, url, lang
FROM ` + "`meta_p`.`wiki`" + `
WHERE dbname = ? OR url = ? OR url = ?
LIMIT 1`

const projectNamespacesQuery = `
SELECT ns_id, ns_name
FROM ` + "`meta_p`.`namespaces`" + `
WHERE dbname = ?`

// FindProject looks a project up by database name or domain. A nil project
// with nil error means no such wiki exists.
func (r *ProjectRepository) FindProject(ctx context.Context, raw string) (*models.Project, error) {
	domain := normalizeDomain(raw)

	rows, err := r.replica.Query(ctx, "find_project", findProjectQuery,
		raw, "https://"+domain, "https://www."+domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var dbname, url, lang string
	if err := rows.Scan(&dbname, &url, &lang); err != nil {
		return nil, err
	}

	project := &models.Project{
		Domain:       strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "www."),
		DatabaseName: dbname,
		Lang:         lang,
	}

	namespaces, err := r.loadNamespaces(ctx, dbname)
	if err != nil {
		return nil, err
	}
	project.Namespaces = namespaces

	return project, nil
}

func (r *ProjectRepository) loadNamespaces(ctx context.Context, dbname string) (map[int]string, error) {
	rows, err := r.replica.Query(ctx, "project_namespaces", projectNamespacesQuery, dbname)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	namespaces := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		namespaces[id] = name
	}
	return namespaces, rows.Err()
}

// normalizeDomain strips the scheme and trailing slash from a raw project
// string so both "en.wikipedia.org" and a full URL match.
func normalizeDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	return strings.TrimSuffix(domain, "/")
}
