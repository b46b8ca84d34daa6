// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/wikiscope/wikiscope/internal/format"
	"github.com/wikiscope/wikiscope/internal/logging"
)

// writeJSON renders v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("encoding response failed")
	}
}

// writeFormatted renders an already-serialized body in a negotiated
// format, attaching the download disposition for csv/tsv.
func writeFormatted(w http.ResponseWriter, r *http.Request, f format.Format, body []byte) {
	w.Header().Set("Content-Type", f.ContentType()+"; charset=utf-8")
	if disposition := f.ContentDisposition(r.URL.Path); disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Err(err).Msg("writing response failed")
	}
}
