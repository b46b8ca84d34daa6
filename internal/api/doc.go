// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package api wires the request pipeline to HTTP.
//
// Every handler runs the same stages: parse and normalize parameters,
// resolve entities through the injected lookups, consult the gates, run
// the statistics computation, and render the negotiated format. HTML
// flows recover from resolution failures by redirecting to the tool index
// with a flash message; API flows return a structured error payload.
package api
