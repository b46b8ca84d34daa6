// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package models

// Project is one wiki installation, identified by domain or database name.
// A project is resolved once per request by the entity resolver and passed
// unchanged to every downstream consumer.
type Project struct {
	// Domain is the canonical internet domain, such as "fr.wikipedia.org".
	Domain string `json:"domain"`

	// DatabaseName is the replica database name, such as "frwiki".
	DatabaseName string `json:"database_name"`

	// Lang is the content language code, empty for languageless projects.
	Lang string `json:"lang,omitempty"`

	// Namespaces maps namespace IDs to their localized names.
	// ID 0 (the article namespace) has an empty name.
	Namespaces map[int]string `json:"namespaces,omitempty"`
}

// NamespaceName returns the localized name for a namespace ID.
// The article namespace (ID 0) and unknown IDs return the empty string.
func (p *Project) NamespaceName(id int) string {
	if p == nil || p.Namespaces == nil {
		return ""
	}
	return p.Namespaces[id]
}
