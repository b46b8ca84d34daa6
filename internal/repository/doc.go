// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package repository implements the lookup collaborators on top of the
// wiki replica databases.
//
// All queries go through a shared Replica handle that wraps the MySQL
// connection with a circuit breaker and per-operation metrics. Project
// metadata lives in the meta database; per-project tables are addressed
// as `<dbname>_p`.<table> on the same replica host.
package repository
