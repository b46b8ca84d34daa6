// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wikiscope/wikiscope/internal/config"
	"github.com/wikiscope/wikiscope/internal/middleware"
)

// NewRouter assembles the full route tree.
func NewRouter(cfg *config.Config, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if cfg.Security.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
	}

	r.Get("/healthz", healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Get("/user/edit-summary", h.EditSummary)
		r.Get("/user/latest-edits", h.LatestEdits)
		r.Get("/page/info", h.PageInfo)
		r.Get("/project/namespaces", h.ProjectNamespaces)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, indexRoute, http.StatusFound)
		})
		r.Get(indexRoute, h.Index)
		r.Get(indexRoute+"/{project}/{username}", h.EditCounter)
		r.Get(simpleCounterRoute, h.SimpleCounter)
		r.Get(simpleCounterRoute+"/{project}/{username}", h.SimpleCounter)
	})

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}
