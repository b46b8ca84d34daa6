// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/wikiscope/wikiscope/internal/metrics"
	"github.com/wikiscope/wikiscope/internal/models"
)

// Decision is the outcome tag of a gate check.
type Decision int

const (
	// Proceed lets the request continue to the statistics computation.
	Proceed Decision = iota

	// Redirect short-circuits the request with an HTTP redirect and a
	// user-facing message.
	Redirect

	// Reject short-circuits the request with an HTTP error status.
	Reject
)

// String returns a stable tag for metrics labels.
func (d Decision) String() string {
	switch d {
	case Redirect:
		return "redirect"
	case Reject:
		return "reject"
	default:
		return "proceed"
	}
}

// GateDecision is the uniform result of a gate check, inspected by the
// caller to either continue or short-circuit. Returning a value instead of
// raising an error keeps HTML and API presentation concerns out of the
// gates themselves.
type GateDecision struct {
	Action Decision

	// TargetRoute is the redirect target when Action is Redirect.
	TargetRoute string

	// Status is the HTTP status when Action is Reject.
	Status int

	// MessageKey and MessageArgs describe the user-facing message.
	MessageKey  string
	MessageArgs []string

	// StripParam names a parameter to remove from the redirect parameters,
	// preventing the target route from tripping the same gate again.
	StripParam string

	// ClearMessages tells API callers to drop queued informational
	// messages, since API responses render messages differently than
	// HTML flash banners.
	ClearMessages bool
}

// proceed is the zero decision.
var proceed = GateDecision{Action: Proceed}

// EditCountGateConfig configures the edit-count protection gate.
type EditCountGateConfig struct {
	// MaxEditCount is the edit volume threshold. Zero disables the gate.
	MaxEditCount int64

	// AltRoute is the lighter-weight alternate tool. Empty disables the
	// gate for the current tool.
	AltRoute string

	// IndexRoute is the current tool's index route.
	IndexRoute string

	// ExemptActions lists actions that skip the gate regardless of count.
	ExemptActions []string
}

// EditCountGate protects expensive per-edit computations from users with
// extreme edit volumes by redirecting to a cheaper alternate tool.
type EditCountGate struct {
	users UserLookup
	cfg   EditCountGateConfig
}

// NewEditCountGate constructs the gate with an explicit lookup collaborator.
func NewEditCountGate(users UserLookup, cfg EditCountGateConfig) *EditCountGate {
	return &EditCountGate{users: users, cfg: cfg}
}

// Check decides whether the user's edit volume requires redirecting away
// from the current action. The memo guarantees the edit count is fetched
// at most once per request even when several gates consult it.
func (g *EditCountGate) Check(ctx context.Context, project *models.Project, user *models.User, action string, isAPI bool, memo *Memo) (GateDecision, error) {
	if g.cfg.AltRoute == "" || g.cfg.MaxEditCount == 0 {
		return g.record(proceed), nil
	}
	if slices.Contains(g.cfg.ExemptActions, action) {
		return g.record(proceed), nil
	}

	count, err := memo.EditCount(ctx, g.users, project, user.Name)
	if err != nil {
		return proceed, err
	}
	if count <= g.cfg.MaxEditCount {
		return g.record(proceed), nil
	}

	decision := GateDecision{
		Action:        Redirect,
		TargetRoute:   g.cfg.AltRoute,
		ClearMessages: isAPI,
	}
	if g.cfg.AltRoute == g.cfg.IndexRoute {
		// Redirecting to our own index with the same username would trip
		// this gate again, so strip it and warn plainly.
		decision.MessageKey = "too-many-edits"
		decision.MessageArgs = []string{strconv.FormatInt(g.cfg.MaxEditCount, 10)}
		decision.StripParam = "username"
	} else {
		decision.MessageKey = "too-many-edits-redir"
		decision.MessageArgs = []string{toolNameFromRoute(g.cfg.AltRoute)}
	}
	return g.record(decision), nil
}

// record publishes the decision outcome to metrics.
func (g *EditCountGate) record(d GateDecision) GateDecision {
	metrics.RecordGateDecision("edit_count", d.Action.String())
	return d
}

// toolNameFromRoute derives a display name from an alternate route,
// e.g. "/simple-counter" becomes "simple-counter".
func toolNameFromRoute(route string) string {
	return strings.Trim(route, "/")
}

// RestrictedStatsConfig configures the opt-in consent gate.
type RestrictedStatsConfig struct {
	// RestrictedActions lists API actions requiring the target user's
	// consent.
	RestrictedActions []string

	// OptInPage is the opt-in marker page title pattern; "{user}" is
	// replaced with the target username.
	OptInPage string
}

// RestrictedStatsGate enforces, for API callers only, that the target user
// has opted in to exposing certain statistics. HTML requests bypass the
// gate entirely; the view layer renders opted-out data with a placeholder.
type RestrictedStatsGate struct {
	users UserLookup
	cfg   RestrictedStatsConfig
}

// NewRestrictedStatsGate constructs the gate with an explicit lookup
// collaborator.
func NewRestrictedStatsGate(users UserLookup, cfg RestrictedStatsConfig) *RestrictedStatsGate {
	return &RestrictedStatsGate{users: users, cfg: cfg}
}

// Check rejects restricted API actions when the target user has not opted
// in. Anonymous users cannot maintain an opt-in page and their editing
// patterns carry no account identity, so they always proceed.
func (g *RestrictedStatsGate) Check(ctx context.Context, project *models.Project, user *models.User, action string, isAPI bool, memo *Memo) (GateDecision, error) {
	if !isAPI || !slices.Contains(g.cfg.RestrictedActions, action) {
		return g.record(proceed), nil
	}
	if user.IsAnon() {
		return g.record(proceed), nil
	}

	optedIn, err := memo.OptedIn(ctx, g.users, project, user.Name)
	if err != nil {
		return proceed, err
	}
	if optedIn {
		return g.record(proceed), nil
	}

	return g.record(GateDecision{
		Action:     Reject,
		Status:     401,
		MessageKey: "not-opted-in",
		MessageArgs: []string{
			g.OptInPath(user.Name),
			"restricted-stats",
			"not-opted-in-login",
		},
	}), nil
}

// OptInPath returns the project-relative path of the user's opt-in page.
func (g *RestrictedStatsGate) OptInPath(username string) string {
	return strings.Replace(g.cfg.OptInPage, "{user}", username, 1)
}

// record publishes the decision outcome to metrics.
func (g *RestrictedStatsGate) record(d GateDecision) GateDecision {
	metrics.RecordGateDecision("restricted_stats", d.Action.String())
	return d
}
