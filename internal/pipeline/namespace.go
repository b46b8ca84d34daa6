// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// NamespaceSelector represents the namespace filter as a tagged variant:
// either all namespaces, or one numeric namespace ID. The zero value
// selects the article namespace (ID 0).
type NamespaceSelector struct {
	all bool
	id  int
}

// AllNamespaces selects every namespace.
func AllNamespaces() NamespaceSelector {
	return NamespaceSelector{all: true}
}

// NamespaceID selects one namespace by its numeric ID.
func NamespaceID(id int) NamespaceSelector {
	return NamespaceSelector{id: id}
}

// ParseNamespace interprets a raw namespace parameter: absent or "all"
// selects every namespace, anything else must be a numeric ID.
func ParseNamespace(raw string) (NamespaceSelector, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return AllNamespaces(), nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return NamespaceSelector{}, fmt.Errorf("invalid namespace %q: %w", raw, err)
	}
	return NamespaceID(id), nil
}

// IsAll reports whether every namespace is selected.
func (s NamespaceSelector) IsAll() bool {
	return s.all
}

// ID returns the selected namespace ID; ok is false when all namespaces
// are selected.
func (s NamespaceSelector) ID() (id int, ok bool) {
	if s.all {
		return 0, false
	}
	return s.id, true
}

// String renders the selector the way it appears in request parameters.
func (s NamespaceSelector) String() string {
	if s.all {
		return "all"
	}
	return strconv.Itoa(s.id)
}
