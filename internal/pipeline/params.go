// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"net/url"
)

// recognizedParams is the fixed catalog of parameters the pipeline extracts
// from inbound requests. Anything else is silently ignored.
var recognizedParams = []string{
	"project",
	"username",
	"namespace",
	"page",
	"categories",
	"group",
	"redirects",
	"deleted",
	"start",
	"end",
	"offset",
	"limit",
	"format",
	"tool",
	"tools",
	"q",
	"include_pattern",
	"exclude_pattern",

	// Legacy aliases, rewritten to canonical keys by NormalizeLegacy.
	"user",
	"name",
	"article",
	"wiki",
	"wikifam",
	"lang",
	"wikilang",
	"begin",
}

// ParsedRequest maps recognized parameter names to their string values.
// Invariant: no key is present with an empty value. Values stay strings
// even when the parameter is numeric; typed interpretation happens later.
type ParsedRequest map[string]string

// ParseRequest extracts the recognized parameters from the query string and
// the path-template variables. Query values win over path values, values are
// URL-decoded, and blank values are dropped entirely.
func ParseRequest(query url.Values, pathVars map[string]string) ParsedRequest {
	parsed := make(ParsedRequest, len(recognizedParams))

	for _, key := range recognizedParams {
		// Query values are already decoded by net/url.
		value := query.Get(key)
		if value == "" && pathVars != nil {
			// Path segments may still carry percent-encoding.
			value = pathVars[key]
			if decoded, err := url.PathUnescape(value); err == nil {
				value = decoded
			}
		}
		if value == "" {
			continue
		}
		parsed[key] = value
	}

	return parsed
}

// Get returns the value for key, or empty string when absent.
func (p ParsedRequest) Get(key string) string {
	return p[key]
}

// Has reports whether key is present.
func (p ParsedRequest) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Clone returns a shallow copy of the request parameters.
func (p ParsedRequest) Clone() ParsedRequest {
	out := make(ParsedRequest, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Without returns a copy of the request parameters with the given keys
// removed. Used when redirecting with an offending parameter stripped.
func (p ParsedRequest) Without(keys ...string) ParsedRequest {
	out := p.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Encode renders the parameters as a query string in sorted key order.
func (p ParsedRequest) Encode() string {
	values := make(url.Values, len(p))
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}
