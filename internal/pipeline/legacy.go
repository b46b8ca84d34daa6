// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"slices"
	"strings"
)

// legacyAliases maps deprecated parameter names to their canonical keys.
// Entries are applied in order; a later alias overwrites the canonical key
// when both are supplied.
var legacyAliases = [][2]string{
	{"user", "username"},
	{"name", "username"},
	{"article", "page"},
	{"begin", "start"},
	{"wikifam", "wiki"},
	{"wikilang", "lang"},
}

// NormalizeLegacy rewrites deprecated parameter names and shapes into the
// canonical parameter set, in place. languageless lists wiki families that
// have no per-language domains (wikidata, commons, ...).
//
// The rewrite is idempotent: once a request is canonical, the legacy keys
// no longer exist, so re-applying is a no-op.
func NormalizeLegacy(p ParsedRequest, languageless []string) {
	for _, alias := range legacyAliases {
		if value, ok := p[alias[0]]; ok {
			p[alias[1]] = value
			delete(p, alias[0])
		}
	}

	// Reconstruct a single project value from separately supplied wiki and
	// lang components, e.g. {wiki: ".wikipedia", lang: "fr"} becomes
	// project=fr.wikipedia.org.
	wiki, ok := p["wiki"]
	if !ok {
		return
	}

	wiki = strings.Trim(wiki, ".")
	wiki = strings.TrimSuffix(wiki, ".org")
	wiki = strings.TrimSuffix(wiki, ".")

	project := wiki + ".org"
	if lang, hasLang := p["lang"]; hasLang && !slices.Contains(languageless, wiki) {
		project = lang + "." + project
	}

	p["project"] = project
	delete(p, "wiki")
	delete(p, "lang")
}
