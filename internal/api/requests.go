// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"net/http"

	"github.com/wikiscope/wikiscope/internal/format"
	"github.com/wikiscope/wikiscope/internal/validation"
)

// Request shapes for the API endpoints. The pipeline tolerates most
// malformed values by clamping or ignoring them; validation here covers
// only what resolution cannot recover from.

type userStatsRequest struct {
	Username string `validate:"required"`
}

type pageInfoRequest struct {
	Page string `validate:"required"`
}

// validateRequest checks s and, on failure, writes a 400 payload listing
// the offending fields. Reports whether the request may continue.
func (h *Handlers) validateRequest(w http.ResponseWriter, state *requestState, s any) bool {
	verr := validation.ValidateStruct(s)
	if verr == nil {
		return true
	}

	env := format.APIEnvelope(state.messages, state.params, state.project)
	env.Set("error", "invalid-parameters")
	fields := make(map[string]string, len(verr.Fields()))
	for _, fe := range verr.Fields() {
		fields[fe.Field] = fe.Message
	}
	env.Set("fields", fields)
	env.Finish(state.start)
	writeJSON(w, http.StatusBadRequest, env)
	return false
}
