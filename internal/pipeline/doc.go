// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

/*
Package pipeline implements the request normalization and entity resolution
shared by every statistics endpoint.

Each inbound request flows through the same stages before any statistics are
computed:

	ParseRequest -> NormalizeLegacy -> ResolveDateWindow -> Resolver
	    -> EditCountGate -> RestrictedStatsGate -> BuildContinuation

The stages are pure or depend only on injected lookup collaborators, so the
pipeline is fully reentrant: no cross-request state is read or written here.
Request-scoped memoization (a user's edit count, opt-in status) lives in an
explicit Memo passed down the call chain.

Gate outcomes are returned as GateDecision values rather than raised as
errors, so the caller decides how to present them (an HTML redirect with a
flash message, or a structured API error).
*/
package pipeline
