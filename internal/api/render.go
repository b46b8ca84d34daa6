// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"strconv"

	"github.com/wikiscope/wikiscope/internal/format"
	"github.com/wikiscope/wikiscope/internal/models"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

var revisionColumns = []string{"id", "timestamp", "page", "minor", "length", "length_change", "comment"}

// renderRevisions serializes a revision list in one of the tabular or
// textual formats. JSON is handled by the envelope path, not here.
func renderRevisions(f format.Format, project *models.Project, user *models.User, revisions []models.Revision) []byte {
	switch f {
	case format.CSV:
		return renderDelimited(revisions, ',')
	case format.TSV:
		return renderDelimited(revisions, '\t')
	case format.Wikitext:
		return renderWikitext(user, revisions)
	default:
		return renderHTMLTable(project, user, revisions)
	}
}

func revisionRow(rev models.Revision) []string {
	return []string{
		strconv.FormatInt(rev.ID, 10),
		rev.Timestamp.Format(pipeline.ContinuationFormat),
		rev.FullPageTitle,
		strconv.FormatBool(rev.Minor),
		strconv.Itoa(rev.Length),
		strconv.Itoa(rev.LengthChange),
		rev.Comment,
	}
}

func renderDelimited(revisions []models.Revision, comma rune) []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = comma

	writer.Write(revisionColumns)
	for _, rev := range revisions {
		writer.Write(revisionRow(rev))
	}
	writer.Flush()
	return buf.Bytes()
}

func renderWikitext(user *models.User, revisions []models.Revision) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "== Latest edits by %s ==\n", user.Name)
	buf.WriteString("{| class=\"wikitable\"\n|-\n")
	for _, col := range revisionColumns {
		fmt.Fprintf(&buf, "! %s\n", col)
	}
	for _, rev := range revisions {
		buf.WriteString("|-\n")
		for _, cell := range revisionRow(rev) {
			fmt.Fprintf(&buf, "| %s\n", cell)
		}
	}
	buf.WriteString("|}\n")
	return buf.Bytes()
}

// renderHTMLTable is the minimal inline result page; the tool has no
// templating layer.
func renderHTMLTable(project *models.Project, user *models.User, revisions []models.Revision) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html><head><title>%s on %s</title></head><body>\n",
		html.EscapeString(user.Name), html.EscapeString(project.Domain))
	fmt.Fprintf(&buf, "<h1>Latest edits by %s</h1>\n<table>\n<tr>", html.EscapeString(user.Name))
	for _, col := range revisionColumns {
		fmt.Fprintf(&buf, "<th>%s</th>", col)
	}
	buf.WriteString("</tr>\n")
	for _, rev := range revisions {
		buf.WriteString("<tr>")
		for _, cell := range revisionRow(rev) {
			fmt.Fprintf(&buf, "<td>%s</td>", html.EscapeString(cell))
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</table>\n</body></html>\n")
	return buf.Bytes()
}

// flashHTML renders queued flash messages as paragraphs.
func flashHTML(messages []format.FlashMessage) string {
	var buf bytes.Buffer
	for _, msg := range messages {
		level := msg.Level
		if level == "" {
			level = "notice"
		}
		fmt.Fprintf(&buf, "<p class=\"flash-%s\">%s</p>\n",
			html.EscapeString(level), html.EscapeString(messageText(msg)))
	}
	return buf.String()
}

// renderIndex is the tool's landing page with any queued flash messages.
func renderIndex(messages []format.FlashMessage) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><title>Edit Counter</title></head><body>\n")
	buf.WriteString(flashHTML(messages))
	buf.WriteString(`<form action="` + indexRoute + `" method="get">
<input name="project" placeholder="en.wikipedia.org">
<input name="username" placeholder="Username, IP or CIDR range">
<button type="submit">Go</button>
</form>
</body></html>
`)
	return buf.Bytes()
}

func messageText(msg format.FlashMessage) string {
	text := msg.Key
	for _, arg := range msg.Args {
		text += " " + arg
	}
	return text
}
