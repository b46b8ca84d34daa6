// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"context"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"github.com/wikiscope/wikiscope/internal/metrics"
	"github.com/wikiscope/wikiscope/internal/models"
)

// ProjectLookup resolves a raw project string (domain or database name).
// A nil project with nil error means the project does not exist.
type ProjectLookup interface {
	FindProject(ctx context.Context, raw string) (*models.Project, error)
}

// UserLookup answers per-project questions about a user.
type UserLookup interface {
	UserExists(ctx context.Context, project *models.Project, username string) (bool, error)
	UserEditCount(ctx context.Context, project *models.Project, username string) (int64, error)
	UserIsOptedIn(ctx context.Context, project *models.Project, username string) (bool, error)
}

// PageLookup resolves a full page title on a project.
// A nil page with nil error means the page does not exist.
type PageLookup interface {
	FindPage(ctx context.Context, project *models.Project, title string) (*models.Page, error)
}

// ResolverConfig carries the policy knobs for entity resolution.
type ResolverConfig struct {
	// SupportedProjects is an optional allow-list of project domains.
	// Empty accepts every existing project.
	SupportedProjects []string

	// MaxIPv4CIDR and MaxIPv6CIDR are the minimum allowed prefix lengths
	// for IP-range pseudo-users. A /8 IPv4 range is wider than a /16, so
	// prefixes below the limit are rejected.
	MaxIPv4CIDR int
	MaxIPv6CIDR int
}

// Resolver turns canonical parameter strings into validated domain
// entities via injected lookup collaborators.
type Resolver struct {
	projects ProjectLookup
	users    UserLookup
	pages    PageLookup
	cfg      ResolverConfig
}

// NewResolver constructs a Resolver with explicit collaborators.
func NewResolver(projects ProjectLookup, users UserLookup, pages PageLookup, cfg ResolverConfig) *Resolver {
	return &Resolver{projects: projects, users: users, pages: pages, cfg: cfg}
}

// ResolveProject looks up a project by domain or database name.
func (r *Resolver) ResolveProject(ctx context.Context, raw string) (*models.Project, error) {
	project, err := r.projects.FindProject(ctx, raw)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, r.fail(&ResolveFailure{
			Kind:        InvalidProject,
			MessageKey:  "invalid-project",
			MessageArgs: []string{raw},
			StripParam:  "project",
		})
	}
	if len(r.cfg.SupportedProjects) > 0 && !slices.Contains(r.cfg.SupportedProjects, project.Domain) {
		return nil, r.fail(&ResolveFailure{
			Kind:        UnsupportedProject,
			MessageKey:  "unsupported-project",
			MessageArgs: []string{project.Domain},
			StripParam:  "project",
		})
	}
	return project, nil
}

// ResolveUser resolves a raw username, IP address or CIDR range on a
// project. Single IPs carry no existence check: anonymous editors are
// queryable regardless of edit history. Named accounts must exist on the
// project; CIDR ranges must not be wider than the per-family limit.
func (r *Resolver) ResolveUser(ctx context.Context, project *models.Project, raw string) (*models.User, error) {
	raw = strings.TrimSpace(raw)

	if addr, err := netip.ParseAddr(raw); err == nil {
		return &models.User{Name: addr.String(), Kind: models.UserAnonymousIP}, nil
	}

	if prefix, err := netip.ParsePrefix(raw); err == nil {
		limit := r.cfg.MaxIPv6CIDR
		if prefix.Addr().Is4() {
			limit = r.cfg.MaxIPv4CIDR
		}
		if prefix.Bits() < limit {
			return nil, r.fail(&ResolveFailure{
				Kind:        IPRangeTooWide,
				MessageKey:  "ip-range-too-wide",
				MessageArgs: []string{strconv.Itoa(limit)},
				StripParam:  "username",
			})
		}
		return &models.User{
			Name:     prefix.String(),
			Kind:     models.UserIPRange,
			CIDRBits: prefix.Bits(),
		}, nil
	}

	username := normalizeUsername(raw)
	exists, err := r.users.UserExists(ctx, project, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, r.fail(&ResolveFailure{
			Kind:        UserNotFound,
			MessageKey:  "user-not-found",
			MessageArgs: []string{username, project.Domain},
			StripParam:  "username",
		})
	}
	return &models.User{Name: username, Kind: models.UserNamed}, nil
}

// ResolvePage resolves a page title within a namespace. For the article
// namespace (or the all-namespaces selector) the title is used as-is;
// otherwise the namespace's localized name is prepended, stripping any
// duplicate prefix already present in the title.
func (r *Resolver) ResolvePage(ctx context.Context, project *models.Project, ns NamespaceSelector, title string) (*models.Page, error) {
	fullTitle := PrefixedTitle(project, ns, title)

	page, err := r.pages.FindPage(ctx, project, fullTitle)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, r.fail(&ResolveFailure{
			Kind:        PageNotFound,
			MessageKey:  "no-result",
			MessageArgs: []string{fullTitle},
			StripParam:  "page",
		})
	}
	return page, nil
}

// fail records the failure in metrics and returns it unchanged.
func (r *Resolver) fail(failure *ResolveFailure) *ResolveFailure {
	metrics.RecordResolverFailure(failure.Kind.String())
	return failure
}

// PrefixedTitle combines a namespace selector and an unprefixed title into
// a full page title using the project's localized namespace names.
func PrefixedTitle(project *models.Project, ns NamespaceSelector, title string) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "_", " "))

	id, ok := ns.ID()
	if !ok || id == 0 {
		return title
	}

	prefix := project.NamespaceName(id)
	if prefix == "" {
		return title
	}

	// Strip a duplicate prefix the caller may have already included.
	if rest, found := strings.CutPrefix(title, prefix+":"); found {
		title = rest
	}
	return prefix + ":" + title
}

// normalizeUsername canonicalizes a raw account name: underscores become
// spaces and the first letter is uppercased, matching page-title rules.
func normalizeUsername(raw string) string {
	name := strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
