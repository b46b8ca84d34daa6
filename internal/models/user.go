// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package models

// UserKind distinguishes the three shapes a "username" parameter can take.
type UserKind int

const (
	// UserNamed is a registered account.
	UserNamed UserKind = iota

	// UserAnonymousIP is a single IP address. Anonymous IPs are queryable
	// regardless of edit history, so they carry no existence guarantee.
	UserAnonymousIP

	// UserIPRange is a CIDR block treated as a single pseudo-user for
	// anonymous-edit attribution.
	UserIPRange
)

// String returns a short tag for logging and metrics labels.
func (k UserKind) String() string {
	switch k {
	case UserAnonymousIP:
		return "ip"
	case UserIPRange:
		return "iprange"
	default:
		return "named"
	}
}

// User is a resolved user entity, scoped to a single request.
type User struct {
	// Name is the canonical username, IP address or CIDR range.
	Name string `json:"username"`

	// Kind tags the shape of the user.
	Kind UserKind `json:"-"`

	// CIDRBits is the prefix length when Kind is UserIPRange, zero otherwise.
	CIDRBits int `json:"-"`
}

// IsAnon reports whether the user is an anonymous IP or IP range.
func (u *User) IsAnon() bool {
	return u.Kind == UserAnonymousIP || u.Kind == UserIPRange
}
