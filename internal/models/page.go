// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package models

import "time"

// Page is a resolved wiki page.
type Page struct {
	// Title is the full page title including any namespace prefix,
	// with spaces rather than underscores.
	Title string `json:"page_title"`

	// NamespaceID is the numeric namespace the page lives in.
	NamespaceID int `json:"namespace"`
}

// Revision is one edit to a page, as returned by the revision sources.
// FullPageTitle is attached by the continuation builder; the raw namespace
// and unprefixed title fields are preserved alongside it.
type Revision struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Namespace    int       `json:"namespace"`
	PageTitle    string    `json:"page_title"`
	Comment      string    `json:"comment"`
	Minor        bool      `json:"minor"`
	Length       int       `json:"length"`
	LengthChange int       `json:"length_change"`

	// FullPageTitle combines the localized namespace name and PageTitle.
	FullPageTitle string `json:"full_page_title,omitempty"`
}

// EditSummary aggregates a user's activity inside a date window.
type EditSummary struct {
	TotalEdits   int64      `json:"total_edits"`
	MinorEdits   int64      `json:"minor_edits"`
	LiveEdits    int64      `json:"live_edits"`
	DeletedEdits int64      `json:"deleted_edits"`
	FirstEdit    *time.Time `json:"first_edit,omitempty"`
	LatestEdit   *time.Time `json:"latest_edit,omitempty"`
}
