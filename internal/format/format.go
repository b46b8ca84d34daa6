// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package format

import "strings"

// Format is a negotiated output representation.
type Format string

const (
	HTML     Format = "html"
	JSON     Format = "json"
	CSV      Format = "csv"
	TSV      Format = "tsv"
	Wikitext Format = "wikitext"
)

// known holds every format a template exists for.
var known = map[Format]bool{
	HTML:     true,
	JSON:     true,
	CSV:      true,
	TSV:      true,
	Wikitext: true,
}

// Negotiate resolves the raw format parameter to a known representation.
// Absent, blank or unknown values fall back to html rather than erroring.
func Negotiate(raw string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if !known[f] {
		return HTML
	}
	return f
}

// ContentType returns the response media type for the format.
func (f Format) ContentType() string {
	switch f {
	case Wikitext:
		return "text/plain"
	case CSV:
		return "text/csv"
	case TSV:
		return "text/tab-separated-values"
	case JSON:
		return "application/json"
	default:
		return "text/html"
	}
}

// IsAttachment reports whether the response is served as a download.
func (f Format) IsAttachment() bool {
	return f == CSV || f == TSV
}

// AttachmentFilename derives a download filename from the request path,
// replacing filesystem-unsafe characters with hyphens and appending the
// format's extension.
func (f Format) AttachmentFilename(requestPath string) string {
	name := strings.Trim(requestPath, "/")
	if name == "" {
		name = "export"
	}
	name = sanitizeFilename(name)
	return name + "." + string(f)
}

// ContentDisposition returns the full Content-Disposition header value for
// attachment formats, or "" when the format renders inline.
func (f Format) ContentDisposition(requestPath string) string {
	if !f.IsAttachment() {
		return ""
	}
	return `attachment; filename="` + f.AttachmentFilename(requestPath) + `"`
}

// sanitizeFilename maps characters that are unsafe in filenames to hyphens.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '-'
		}
	}, name)
}
