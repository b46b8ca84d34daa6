// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

// Package config loads and validates the WikiScope configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the WikiScope server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Database DatabaseConfig `koanf:"database"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds replica database connection settings.
type DatabaseConfig struct {
	// DSN is a go-sql-driver/mysql data source name pointing at the
	// replica host carrying the wiki databases.
	DSN     string `koanf:"dsn"`
	MaxOpen int    `koanf:"max_open"`
	MaxIdle int    `koanf:"max_idle"`
}

// PipelineConfig holds the request-normalization and gating settings
// shared by every statistics endpoint.
type PipelineConfig struct {
	// DefaultDays is the window size applied when only one date bound is
	// supplied. Zero disables the default window.
	DefaultDays int `koanf:"default_days"`

	// MaxDays is a hard cap on the window width in days.
	// Zero means unlimited.
	MaxDays int `koanf:"max_days"`

	// MaxEditCount is the edit volume above which per-edit tools redirect
	// to a lighter-weight alternative. Zero disables the gate.
	MaxEditCount int64 `koanf:"max_edit_count"`

	// EditCountExemptActions lists actions that skip the edit-count gate.
	EditCountExemptActions []string `koanf:"edit_count_exempt_actions"`

	// AltRoute is the route users are redirected to when the edit-count
	// gate trips. When it equals the tool's index route, the username
	// parameter is stripped from the redirect to avoid a loop.
	AltRoute string `koanf:"alt_route"`

	// MaxIPv4CIDR and MaxIPv6CIDR are the minimum allowed prefix lengths
	// for IP-range pseudo-users, per address family.
	MaxIPv4CIDR int `koanf:"max_ipv4_cidr"`
	MaxIPv6CIDR int `koanf:"max_ipv6_cidr"`

	// LanguagelessProjects are wiki families with no per-language domains,
	// e.g. "wikidata". Used during legacy project reconstruction.
	LanguagelessProjects []string `koanf:"languageless_projects"`

	// SupportedProjects is an optional allow-list of project domains.
	// Empty means every existing project is accepted.
	SupportedProjects []string `koanf:"supported_projects"`

	// RestrictedActions lists API actions that require the target user to
	// have opted in to restricted statistics.
	RestrictedActions []string `koanf:"restricted_actions"`

	// OptInPage is the title pattern of the opt-in marker page;
	// "{user}" is replaced with the target username.
	OptInPage string `koanf:"opt_in_page"`

	// DefaultLimit and MaxLimit bound the per-page record counts.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// SecurityConfig holds CORS and rate-limiting settings.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Pipeline.DefaultDays < 0 {
		return fmt.Errorf("pipeline.default_days must not be negative, got %d", c.Pipeline.DefaultDays)
	}
	if c.Pipeline.MaxDays < 0 {
		return fmt.Errorf("pipeline.max_days must not be negative, got %d", c.Pipeline.MaxDays)
	}
	if c.Pipeline.MaxIPv4CIDR < 0 || c.Pipeline.MaxIPv4CIDR > 32 {
		return fmt.Errorf("pipeline.max_ipv4_cidr must be between 0 and 32, got %d", c.Pipeline.MaxIPv4CIDR)
	}
	if c.Pipeline.MaxIPv6CIDR < 0 || c.Pipeline.MaxIPv6CIDR > 128 {
		return fmt.Errorf("pipeline.max_ipv6_cidr must be between 0 and 128, got %d", c.Pipeline.MaxIPv6CIDR)
	}
	if c.Pipeline.DefaultLimit < 1 {
		return fmt.Errorf("pipeline.default_limit must be at least 1, got %d", c.Pipeline.DefaultLimit)
	}
	if c.Pipeline.MaxLimit < c.Pipeline.DefaultLimit {
		return fmt.Errorf("pipeline.max_limit (%d) must not be below pipeline.default_limit (%d)",
			c.Pipeline.MaxLimit, c.Pipeline.DefaultLimit)
	}
	return nil
}
