// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package format

import (
	"bytes"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/wikiscope/wikiscope/internal/models"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

// FlashMessage is a queued user-facing notice carried across a redirect or
// surfaced in an API payload.
type FlashMessage struct {
	Level string   `json:"level,omitempty"`
	Key   string   `json:"key"`
	Args  []string `json:"args,omitempty"`
}

// Envelope is the top-level API response object. Keys serialize in
// insertion order, so callers control the payload shape: messages first,
// then echoed parameters, then tool data, then the trailing bookkeeping
// fields.
type Envelope struct {
	keys   []string
	values map[string]any
}

// NewEnvelope creates an empty envelope.
func NewEnvelope() *Envelope {
	return &Envelope{values: make(map[string]any)}
}

// Set stores a value under key. A repeated key keeps its original position.
func (e *Envelope) Set(key string, value any) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the stored value, or nil.
func (e *Envelope) Get(key string) any {
	return e.values[key]
}

// Has reports whether key is present.
func (e *Envelope) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

// MarshalJSON renders the envelope with keys in insertion order.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(e.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// APIEnvelope starts an envelope in the canonical layout: queued flash
// messages grouped by level come first, followed by every resolved
// parameter echoed back. Pipe-delimited multi-value parameters re-explode
// into arrays, and the echoed project is overwritten with its normalized
// domain. The caller then adds tool data keys and calls Finish.
func APIEnvelope(messages []FlashMessage, params pipeline.ParsedRequest, project *models.Project) *Envelope {
	env := NewEnvelope()

	for _, msg := range messages {
		level := msg.Level
		if level == "" {
			level = "notice"
		}
		queued, _ := env.Get(level).([]FlashMessage)
		env.Set(level, append(queued, msg))
	}

	for _, key := range sortedKeys(params) {
		value := params.Get(key)
		if strings.Contains(value, "|") {
			env.Set(key, strings.Split(value, "|"))
		} else {
			env.Set(key, value)
		}
	}
	if project != nil {
		env.Set("project", project.Domain)
	}

	return env
}

// SetContinue records the continuation token; empty tokens are omitted.
func (e *Envelope) SetContinue(token string) {
	if token != "" {
		e.Set("continue", token)
	}
}

// Finish appends elapsed_time in seconds, rounded to milliseconds.
func (e *Envelope) Finish(start time.Time) {
	elapsed := time.Since(start).Seconds()
	e.Set("elapsed_time", math.Round(elapsed*1000)/1000)
}

// sortedKeys returns the parameter names in stable order.
func sortedKeys(params pipeline.ParsedRequest) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
