// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiscope/wikiscope/internal/models"
)

// Stub lookups shared by the resolver, gate and memo tests.

type stubProjects struct {
	projects map[string]*models.Project
	err      error
}

func (s *stubProjects) FindProject(_ context.Context, raw string) (*models.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.projects[raw], nil
}

type stubUsers struct {
	existing  map[string]bool
	counts    map[string]int64
	optIns    map[string]bool
	countErr  error
	callCount map[string]int
}

func (s *stubUsers) record(method string) {
	if s.callCount == nil {
		s.callCount = make(map[string]int)
	}
	s.callCount[method]++
}

func (s *stubUsers) UserExists(_ context.Context, _ *models.Project, username string) (bool, error) {
	s.record("UserExists")
	return s.existing[username], nil
}

func (s *stubUsers) UserEditCount(_ context.Context, _ *models.Project, username string) (int64, error) {
	s.record("UserEditCount")
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.counts[username], nil
}

func (s *stubUsers) UserIsOptedIn(_ context.Context, _ *models.Project, username string) (bool, error) {
	s.record("UserIsOptedIn")
	return s.optIns[username], nil
}

type stubPages struct {
	pages map[string]*models.Page
}

func (s *stubPages) FindPage(_ context.Context, _ *models.Project, title string) (*models.Page, error) {
	return s.pages[title], nil
}

func enwiki() *models.Project {
	return &models.Project{
		Domain:       "en.wikipedia.org",
		DatabaseName: "enwiki",
		Lang:         "en",
		Namespaces: map[int]string{
			0: "",
			1: "Talk",
			2: "User",
			4: "Wikipedia",
		},
	}
}

func newTestResolver(users *stubUsers, pages *stubPages) *Resolver {
	projects := &stubProjects{projects: map[string]*models.Project{
		"en.wikipedia.org": enwiki(),
		"enwiki":           enwiki(),
	}}
	return NewResolver(projects, users, pages, ResolverConfig{
		MaxIPv4CIDR: 16,
		MaxIPv6CIDR: 32,
	})
}

func TestResolveProject(t *testing.T) {
	r := newTestResolver(&stubUsers{}, &stubPages{})
	ctx := context.Background()

	t.Run("by domain", func(t *testing.T) {
		project, err := r.ResolveProject(ctx, "en.wikipedia.org")
		require.NoError(t, err)
		assert.Equal(t, "enwiki", project.DatabaseName)
	})

	t.Run("by database name", func(t *testing.T) {
		project, err := r.ResolveProject(ctx, "enwiki")
		require.NoError(t, err)
		assert.Equal(t, "en.wikipedia.org", project.Domain)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := r.ResolveProject(ctx, "nosuch.example.org")
		failure := AsResolveFailure(err)
		require.NotNil(t, failure)
		assert.Equal(t, InvalidProject, failure.Kind)
		assert.Equal(t, "project", failure.StripParam)
		assert.Equal(t, []string{"nosuch.example.org"}, failure.MessageArgs)
	})
}

func TestResolveProject_AllowList(t *testing.T) {
	projects := &stubProjects{projects: map[string]*models.Project{
		"en.wikipedia.org": enwiki(),
	}}
	r := NewResolver(projects, &stubUsers{}, &stubPages{}, ResolverConfig{
		SupportedProjects: []string{"de.wikipedia.org"},
	})

	_, err := r.ResolveProject(context.Background(), "en.wikipedia.org")
	failure := AsResolveFailure(err)
	require.NotNil(t, failure)
	assert.Equal(t, UnsupportedProject, failure.Kind)
}

func TestResolveUser_NamedAccount(t *testing.T) {
	users := &stubUsers{existing: map[string]bool{"Jimbo Wales": true}}
	r := newTestResolver(users, &stubPages{})
	ctx := context.Background()

	t.Run("exists with normalization", func(t *testing.T) {
		user, err := r.ResolveUser(ctx, enwiki(), "jimbo_Wales")
		require.NoError(t, err)
		assert.Equal(t, "Jimbo Wales", user.Name)
		assert.Equal(t, models.UserNamed, user.Kind)
		assert.False(t, user.IsAnon())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.ResolveUser(ctx, enwiki(), "Nobody Here")
		failure := AsResolveFailure(err)
		require.NotNil(t, failure)
		assert.Equal(t, UserNotFound, failure.Kind)
		assert.Equal(t, "username", failure.StripParam)
	})
}

func TestResolveUser_IPAddress(t *testing.T) {
	// Single IPs skip the existence check entirely.
	r := newTestResolver(&stubUsers{}, &stubPages{})
	ctx := context.Background()

	user, err := r.ResolveUser(ctx, enwiki(), "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, models.UserAnonymousIP, user.Kind)
	assert.True(t, user.IsAnon())

	user, err = r.ResolveUser(ctx, enwiki(), "2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, models.UserAnonymousIP, user.Kind)
}

func TestResolveUser_IPRange(t *testing.T) {
	r := newTestResolver(&stubUsers{}, &stubPages{})
	ctx := context.Background()

	t.Run("narrow range accepted", func(t *testing.T) {
		user, err := r.ResolveUser(ctx, enwiki(), "192.0.2.0/24")
		require.NoError(t, err)
		assert.Equal(t, models.UserIPRange, user.Kind)
		assert.Equal(t, 24, user.CIDRBits)
		assert.True(t, user.IsAnon())
	})

	t.Run("wide range rejected", func(t *testing.T) {
		_, err := r.ResolveUser(ctx, enwiki(), "10.0.0.0/8")
		failure := AsResolveFailure(err)
		require.NotNil(t, failure)
		assert.Equal(t, IPRangeTooWide, failure.Kind)
		assert.Equal(t, []string{"16"}, failure.MessageArgs)
		assert.Equal(t, 400, failure.Kind.HTTPStatus())
	})

	t.Run("ipv6 limit is separate", func(t *testing.T) {
		user, err := r.ResolveUser(ctx, enwiki(), "2001:db8::/32")
		require.NoError(t, err)
		assert.Equal(t, 32, user.CIDRBits)

		_, err = r.ResolveUser(ctx, enwiki(), "2001:db8::/20")
		require.NotNil(t, AsResolveFailure(err))
	})
}

func TestResolvePage(t *testing.T) {
	pages := &stubPages{pages: map[string]*models.Page{
		"Albert Einstein":      {Title: "Albert Einstein", NamespaceID: 0},
		"Talk:Albert Einstein": {Title: "Talk:Albert Einstein", NamespaceID: 1},
	}}
	r := newTestResolver(&stubUsers{}, pages)
	ctx := context.Background()

	t.Run("article namespace", func(t *testing.T) {
		page, err := r.ResolvePage(ctx, enwiki(), NamespaceID(0), "Albert_Einstein")
		require.NoError(t, err)
		assert.Equal(t, "Albert Einstein", page.Title)
	})

	t.Run("prefixed namespace", func(t *testing.T) {
		page, err := r.ResolvePage(ctx, enwiki(), NamespaceID(1), "Albert Einstein")
		require.NoError(t, err)
		assert.Equal(t, "Talk:Albert Einstein", page.Title)
	})

	t.Run("missing page", func(t *testing.T) {
		_, err := r.ResolvePage(ctx, enwiki(), NamespaceID(0), "No Such Article")
		failure := AsResolveFailure(err)
		require.NotNil(t, failure)
		assert.Equal(t, PageNotFound, failure.Kind)
		assert.Equal(t, "no-result", failure.MessageKey)
	})
}

func TestPrefixedTitle(t *testing.T) {
	project := enwiki()

	tests := []struct {
		name  string
		ns    NamespaceSelector
		title string
		want  string
	}{
		{"article as-is", NamespaceID(0), "Albert Einstein", "Albert Einstein"},
		{"all namespaces as-is", AllNamespaces(), "Talk:Foo", "Talk:Foo"},
		{"underscores to spaces", NamespaceID(0), "Albert_Einstein", "Albert Einstein"},
		{"prefix added", NamespaceID(2), "Example", "User:Example"},
		{"duplicate prefix stripped", NamespaceID(2), "User:Example", "User:Example"},
		{"unknown namespace id", NamespaceID(99), "Example", "Example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrefixedTitle(project, tt.ns, tt.title))
		})
	}
}

func TestAsResolveFailure(t *testing.T) {
	assert.Nil(t, AsResolveFailure(ErrDownstreamUnavailable))
	assert.Nil(t, AsResolveFailure(nil))

	failure := &ResolveFailure{Kind: UserNotFound, MessageKey: "user-not-found"}
	assert.Equal(t, failure, AsResolveFailure(failure))
}
