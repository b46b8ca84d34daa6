// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/wikiscope/wikiscope/internal/format"
)

const (
	// lastProjectCookie remembers the last successfully resolved project
	// domain as a fallback when a request names no project.
	lastProjectCookie = "lastProject"

	// flashCookie carries queued messages across an HTML redirect.
	flashCookie = "flash"
)

// lastProject reads the fallback project domain, or "".
func lastProject(r *http.Request) string {
	cookie, err := r.Cookie(lastProjectCookie)
	if err != nil {
		return ""
	}
	domain, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return domain
}

// rememberProject persists the resolved project domain for a year.
func rememberProject(w http.ResponseWriter, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     lastProjectCookie,
		Value:    url.QueryEscape(domain),
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: http.SameSiteLaxMode,
	})
}

// queueFlashes stores messages for the next HTML request.
func queueFlashes(w http.ResponseWriter, messages []format.FlashMessage) {
	if len(messages) == 0 {
		return
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		MaxAge:   300,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlashes reads queued messages and clears the cookie.
func takeFlashes(w http.ResponseWriter, r *http.Request) []format.FlashMessage {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Path:   "/",
		MaxAge: -1,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	var messages []format.FlashMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil
	}
	return messages
}
