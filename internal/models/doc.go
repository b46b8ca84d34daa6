// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package models defines the domain entities shared across the request
// pipeline, the repositories and the HTTP handlers: wiki projects, users
// (named accounts, anonymous IPs and IP ranges), pages and revisions.
package models
