// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.DSN = "wikiscope:secret@tcp(replica:3306)/"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, 30, cfg.Pipeline.DefaultDays)
	assert.Equal(t, 0, cfg.Pipeline.MaxDays)
	assert.Equal(t, int64(350000), cfg.Pipeline.MaxEditCount)
	assert.Equal(t, 16, cfg.Pipeline.MaxIPv4CIDR)
	assert.Equal(t, 32, cfg.Pipeline.MaxIPv6CIDR)
	assert.Equal(t, 50, cfg.Pipeline.DefaultLimit)
	assert.Contains(t, cfg.Pipeline.LanguagelessProjects, "wikidata")
	assert.Contains(t, cfg.Pipeline.OptInPage, "{user}")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing dsn",
			mutate:  func(c *Config) { c.Database.DSN = "" },
			wantErr: "database.dsn",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "negative default days",
			mutate:  func(c *Config) { c.Pipeline.DefaultDays = -1 },
			wantErr: "pipeline.default_days",
		},
		{
			name:    "ipv4 cidr out of range",
			mutate:  func(c *Config) { c.Pipeline.MaxIPv4CIDR = 33 },
			wantErr: "pipeline.max_ipv4_cidr",
		},
		{
			name:    "ipv6 cidr out of range",
			mutate:  func(c *Config) { c.Pipeline.MaxIPv6CIDR = 129 },
			wantErr: "pipeline.max_ipv6_cidr",
		},
		{
			name:    "max limit below default limit",
			mutate:  func(c *Config) { c.Pipeline.MaxLimit = 10 },
			wantErr: "pipeline.max_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadWithKoanf_EnvOverride(t *testing.T) {
	t.Setenv("REPLICA_DSN", "wikiscope:secret@tcp(replica:3306)/")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PIPELINE_DEFAULT_DAYS", "20")
	t.Setenv("PIPELINE_SUPPORTED_PROJECTS", "en.wikipedia.org, de.wikipedia.org")

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Pipeline.DefaultDays)
	assert.Equal(t, []string{"en.wikipedia.org", "de.wikipedia.org"}, cfg.Pipeline.SupportedProjects)
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"REPLICA_DSN", "database.dsn"},
		{"PIPELINE_MAX_IPV4_CIDR", "pipeline.max_ipv4_cidr"},
		{"SOME_RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, envTransformFunc(tt.in), tt.in)
	}
}
