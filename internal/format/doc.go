// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package format negotiates the output representation of a response and
// assembles the API JSON envelope.
//
// A request names its representation through the format parameter; html,
// json, csv, tsv and wikitext are known. Unknown formats fall back to html
// silently. CSV and TSV responses are served as attachments with a
// filename derived from the request path.
package format
