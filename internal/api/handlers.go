// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wikiscope/wikiscope/internal/config"
	"github.com/wikiscope/wikiscope/internal/format"
	"github.com/wikiscope/wikiscope/internal/logging"
	"github.com/wikiscope/wikiscope/internal/models"
	"github.com/wikiscope/wikiscope/internal/pipeline"
	"github.com/wikiscope/wikiscope/internal/stats"
)

// Route names of the two HTML tools.
const (
	indexRoute         = "/edit-counter"
	simpleCounterRoute = "/simple-counter"
)

// Handlers holds the pipeline collaborators every request flows through.
type Handlers struct {
	cfg        *config.Config
	resolver   *pipeline.Resolver
	users      pipeline.UserLookup
	stats      *stats.Service
	editGate   *pipeline.EditCountGate
	restricted *pipeline.RestrictedStatsGate
}

// NewHandlers wires the handler set from explicit collaborators.
func NewHandlers(cfg *config.Config, resolver *pipeline.Resolver, users pipeline.UserLookup, statsSvc *stats.Service) *Handlers {
	return &Handlers{
		cfg:      cfg,
		resolver: resolver,
		users:    users,
		stats:    statsSvc,
		editGate: pipeline.NewEditCountGate(users, pipeline.EditCountGateConfig{
			MaxEditCount:  cfg.Pipeline.MaxEditCount,
			AltRoute:      cfg.Pipeline.AltRoute,
			IndexRoute:    indexRoute,
			ExemptActions: cfg.Pipeline.EditCountExemptActions,
		}),
		restricted: pipeline.NewRestrictedStatsGate(users, pipeline.RestrictedStatsConfig{
			RestrictedActions: cfg.Pipeline.RestrictedActions,
			OptInPage:         cfg.Pipeline.OptInPage,
		}),
	}
}

// requestState carries one request through the pipeline stages.
type requestState struct {
	start    time.Time
	params   pipeline.ParsedRequest
	isAPI    bool
	messages []format.FlashMessage
	project  *models.Project
	user     *models.User
	memo     *pipeline.Memo
}

// begin parses and normalizes the request parameters. HTML requests also
// pick up flash messages queued by a previous redirect.
func (h *Handlers) begin(w http.ResponseWriter, r *http.Request, isAPI bool) *requestState {
	state := &requestState{
		start: time.Now(),
		isAPI: isAPI,
		memo:  pipeline.NewMemo(),
	}

	pathVars := make(map[string]string)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			pathVars[key] = rctx.URLParams.Values[i]
		}
	}
	state.params = pipeline.ParseRequest(r.URL.Query(), pathVars)
	pipeline.NormalizeLegacy(state.params, h.cfg.Pipeline.LanguagelessProjects)

	if !isAPI {
		state.messages = takeFlashes(w, r)
	}
	return state
}

// warn queues a non-fatal message on the request.
func (state *requestState) warn(key string, args ...string) {
	state.messages = append(state.messages, format.FlashMessage{Level: "warning", Key: key, Args: args})
}

// resolveProject resolves the project parameter, falling back to the
// lastProject cookie. Reports whether the response was already written.
func (h *Handlers) resolveProject(w http.ResponseWriter, r *http.Request, state *requestState) bool {
	raw := state.params.Get("project")
	if raw == "" {
		raw = lastProject(r)
	}

	project, err := h.resolver.ResolveProject(r.Context(), raw)
	if err != nil {
		h.failResolution(w, r, state, err)
		return false
	}
	state.project = project

	if !state.isAPI {
		rememberProject(w, project.Domain)
	}
	return true
}

// resolveUser resolves the username parameter on the current project.
func (h *Handlers) resolveUser(w http.ResponseWriter, r *http.Request, state *requestState) bool {
	user, err := h.resolver.ResolveUser(r.Context(), state.project, state.params.Get("username"))
	if err != nil {
		h.failResolution(w, r, state, err)
		return false
	}
	state.user = user
	return true
}

// checkGates runs both gates for the action. Reports whether the request
// may proceed; a false return means the response was already written.
func (h *Handlers) checkGates(w http.ResponseWriter, r *http.Request, state *requestState, action string) bool {
	decision, err := h.editGate.Check(r.Context(), state.project, state.user, action, state.isAPI, state.memo)
	if err != nil {
		h.failResolution(w, r, state, err)
		return false
	}
	if h.applyDecision(w, r, state, decision) {
		return false
	}

	decision, err = h.restricted.Check(r.Context(), state.project, state.user, action, state.isAPI, state.memo)
	if err != nil {
		h.failResolution(w, r, state, err)
		return false
	}
	return !h.applyDecision(w, r, state, decision)
}

// applyDecision short-circuits the request when a gate said so. Reports
// whether the response was written.
func (h *Handlers) applyDecision(w http.ResponseWriter, r *http.Request, state *requestState, d pipeline.GateDecision) bool {
	switch d.Action {
	case pipeline.Proceed:
		return false

	case pipeline.Redirect:
		if d.ClearMessages {
			state.messages = nil
		} else {
			state.messages = append(state.messages, format.FlashMessage{
				Level: "warning", Key: d.MessageKey, Args: d.MessageArgs,
			})
			queueFlashes(w, state.messages)
		}
		params := state.params.Without(d.StripParam)
		target := d.TargetRoute
		if encoded := params.Encode(); encoded != "" {
			target += "?" + encoded
		}
		http.Redirect(w, r, target, http.StatusFound)
		return true

	default: // Reject
		env := format.APIEnvelope(state.messages, state.params, state.project)
		env.Set("error", d.MessageKey)
		if len(d.MessageArgs) > 0 {
			env.Set("error_args", d.MessageArgs)
		}
		env.Finish(state.start)
		writeJSON(w, d.Status, env)
		return true
	}
}

// dateWindow resolves the start/end parameters and queues a truncation
// warning when the configured maximum span was applied.
func (h *Handlers) dateWindow(state *requestState) pipeline.DateWindow {
	window, truncated := pipeline.ResolveDateWindow(
		state.params.Get("start"), state.params.Get("end"),
		pipeline.WindowOptions{
			DefaultDays: h.cfg.Pipeline.DefaultDays,
			MaxDays:     h.cfg.Pipeline.MaxDays,
		}, time.Now())
	if truncated {
		state.warn("date-range-outside-limits", strconv.Itoa(h.cfg.Pipeline.MaxDays))
	}
	return window
}

// EditSummary serves GET /api/v1/user/edit-summary.
func (h *Handlers) EditSummary(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, true)
	if !h.validateRequest(w, state, &userStatsRequest{Username: state.params.Get("username")}) {
		return
	}
	if !h.resolveProject(w, r, state) || !h.resolveUser(w, r, state) {
		return
	}
	window := h.dateWindow(state)
	if !h.checkGates(w, r, state, "edit-summary") {
		return
	}

	env := format.APIEnvelope(state.messages, state.params, state.project)
	env.Set("start", window.Start.Format(pipeline.DateFormat))
	env.Set("end", window.End.Format(pipeline.DateFormat))

	summary, err := h.stats.EditSummary(r.Context(), state.project, state.user, window)
	if err != nil {
		h.degrade(w, state, env, err)
		return
	}
	env.Set("total_edits", summary.TotalEdits)
	env.Set("live_edits", summary.LiveEdits)
	env.Set("deleted_edits", summary.DeletedEdits)
	env.Set("minor_edits", summary.MinorEdits)
	if summary.FirstEdit != nil {
		env.Set("first_edit", summary.FirstEdit.Format(pipeline.ContinuationFormat))
	}
	if summary.LatestEdit != nil {
		env.Set("latest_edit", summary.LatestEdit.Format(pipeline.ContinuationFormat))
	}
	env.Finish(state.start)
	writeJSON(w, http.StatusOK, env)
}

// LatestEdits serves GET /api/v1/user/latest-edits.
func (h *Handlers) LatestEdits(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, true)
	if !h.validateRequest(w, state, &userStatsRequest{Username: state.params.Get("username")}) {
		return
	}
	if !h.resolveProject(w, r, state) || !h.resolveUser(w, r, state) {
		return
	}

	ns, err := pipeline.ParseNamespace(state.params.Get("namespace"))
	if err != nil {
		env := format.APIEnvelope(state.messages, state.params, state.project)
		env.Set("error", "invalid-namespace")
		env.Finish(state.start)
		writeJSON(w, http.StatusBadRequest, env)
		return
	}
	if !h.checkGates(w, r, state, "latest-edits") {
		return
	}

	pag := pipeline.ParsePagination(state.params, h.cfg.Pipeline.DefaultLimit, h.cfg.Pipeline.MaxLimit)

	env := format.APIEnvelope(state.messages, state.params, state.project)
	revisions, token, err := h.stats.LatestEdits(r.Context(), state.project, state.user, ns, pag)
	if err != nil {
		h.degrade(w, state, env, err)
		return
	}
	env.Set("revisions", revisions)
	env.SetContinue(token)
	env.Finish(state.start)
	writeJSON(w, http.StatusOK, env)
}

// PageInfo serves GET /api/v1/page/info.
func (h *Handlers) PageInfo(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, true)
	if !h.validateRequest(w, state, &pageInfoRequest{Page: state.params.Get("page")}) {
		return
	}
	if !h.resolveProject(w, r, state) {
		return
	}

	ns, err := pipeline.ParseNamespace(state.params.Get("namespace"))
	if err != nil {
		env := format.APIEnvelope(state.messages, state.params, state.project)
		env.Set("error", "invalid-namespace")
		env.Finish(state.start)
		writeJSON(w, http.StatusBadRequest, env)
		return
	}

	page, err := h.resolver.ResolvePage(r.Context(), state.project, ns, state.params.Get("page"))
	if err != nil {
		h.failResolution(w, r, state, err)
		return
	}

	env := format.APIEnvelope(state.messages, state.params, state.project)
	env.Set("page_title", page.Title)
	env.Set("namespace", page.NamespaceID)
	env.Finish(state.start)
	writeJSON(w, http.StatusOK, env)
}

// ProjectNamespaces serves GET /api/v1/project/namespaces.
func (h *Handlers) ProjectNamespaces(w http.ResponseWriter, r *http.Request) {
	state := h.begin(w, r, true)
	if !h.resolveProject(w, r, state) {
		return
	}

	env := format.APIEnvelope(state.messages, state.params, state.project)
	namespaces := make(map[string]string, len(state.project.Namespaces))
	for id, name := range state.project.Namespaces {
		namespaces[strconv.Itoa(id)] = name
	}
	env.Set("namespaces", namespaces)
	env.Finish(state.start)
	writeJSON(w, http.StatusOK, env)
}

// failResolution renders a recoverable resolution failure, or a degraded
// downstream error when the failure is not a ResolveFailure.
func (h *Handlers) failResolution(w http.ResponseWriter, r *http.Request, state *requestState, err error) {
	failure := pipeline.AsResolveFailure(err)
	if failure == nil {
		env := format.APIEnvelope(state.messages, state.params, state.project)
		h.degrade(w, state, env, err)
		return
	}

	if state.isAPI {
		env := format.APIEnvelope(state.messages, state.params, state.project)
		env.Set("error", failure.MessageKey)
		if len(failure.MessageArgs) > 0 {
			env.Set("error_args", failure.MessageArgs)
		}
		env.Finish(state.start)
		writeJSON(w, failure.Kind.HTTPStatus(), env)
		return
	}

	state.messages = append(state.messages, format.FlashMessage{
		Level: "danger", Key: failure.MessageKey, Args: failure.MessageArgs,
	})
	queueFlashes(w, state.messages)

	params := state.params.Without(failure.StripParam)
	target := indexRoute
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// degrade surfaces a downstream failure as a partial payload with an
// error field; entity metadata already resolved stays in the envelope.
func (h *Handlers) degrade(w http.ResponseWriter, state *requestState, env *format.Envelope, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrDownstreamUnavailable):
		env.Set("error", "downstream-unavailable")
		status = http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrDownstreamTimeout):
		env.Set("error", "downstream-timeout")
		status = http.StatusServiceUnavailable
	default:
		logging.Err(err).Msg("request failed")
		env.Set("error", "internal-error")
	}
	env.Finish(state.start)
	writeJSON(w, status, env)
}
