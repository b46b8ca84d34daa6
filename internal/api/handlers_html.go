// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"

	"github.com/wikiscope/wikiscope/internal/format"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

// Index serves the edit-counter landing page. A submitted form redirects
// to the pretty result route; otherwise the form renders with any queued
// flash messages.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, false)

	project := state.params.Get("project")
	username := state.params.Get("username")
	if project != "" && username != "" {
		rest := state.params.Without("project").Without("username")
		target := fmt.Sprintf("%s/%s/%s", indexRoute, url.PathEscape(project), url.PathEscape(username))
		if encoded := rest.Encode(); encoded != "" {
			target += "?" + encoded
		}
		queueFlashes(w, state.messages)
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	writeFormatted(w, r, format.HTML, renderIndex(state.messages))
}

// EditCounter serves GET /edit-counter/{project}/{username}: the full
// pipeline with negotiated output.
func (h *Handlers) EditCounter(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, false)
	if !h.resolveProject(w, r, state) || !h.resolveUser(w, r, state) {
		return
	}

	ns, err := pipeline.ParseNamespace(state.params.Get("namespace"))
	if err != nil {
		h.failResolution(w, r, state, &pipeline.ResolveFailure{
			Kind:        pipeline.PageNotFound,
			MessageKey:  "invalid-namespace",
			MessageArgs: []string{state.params.Get("namespace")},
			StripParam:  "namespace",
		})
		return
	}
	if !h.checkGates(w, r, state, "edit-counter") {
		return
	}

	pag := pipeline.ParsePagination(state.params, h.cfg.Pipeline.DefaultLimit, h.cfg.Pipeline.MaxLimit)
	revisions, token, err := h.stats.LatestEdits(r.Context(), state.project, state.user, ns, pag)
	if err != nil {
		h.htmlDegrade(w, err)
		return
	}

	f := format.Negotiate(state.params.Get("format"))
	if f == format.JSON {
		env := format.APIEnvelope(state.messages, state.params, state.project)
		env.Set("revisions", revisions)
		env.SetContinue(token)
		env.Finish(state.start)
		writeJSON(w, http.StatusOK, env)
		return
	}
	writeFormatted(w, r, f, renderRevisions(f, state.project, state.user, revisions))
}

// SimpleCounter serves the lighter-weight alternate tool: edit counts
// only, no per-edit queries, so it accepts any edit volume.
func (h *Handlers) SimpleCounter(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, false)
	if !h.resolveProject(w, r, state) || !h.resolveUser(w, r, state) {
		return
	}

	count, err := state.memo.EditCount(r.Context(), h.users, state.project, state.user.Name)
	if err != nil {
		h.htmlDegrade(w, err)
		return
	}

	body := fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>Simple Counter</title></head><body>\n%s<p>%s has %d edits on %s.</p>\n</body></html>\n",
		flashHTML(state.messages), html.EscapeString(state.user.Name), count, html.EscapeString(state.project.Domain))
	writeFormatted(w, r, format.HTML, []byte(body))
}

// htmlDegrade reports a downstream failure on an HTML flow.
func (h *Handlers) htmlDegrade(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, pipeline.ErrDownstreamUnavailable) || errors.Is(err, pipeline.ErrDownstreamTimeout) {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, "the replica database is temporarily unavailable", status)
}
