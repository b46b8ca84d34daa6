// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiscope/wikiscope/internal/models"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

type stubSource struct {
	revisions []models.Revision
	summary   *models.EditSummary
	err       error
}

func (s *stubSource) LatestEdits(context.Context, *models.Project, *models.User, pipeline.NamespaceSelector, pipeline.PaginationState) ([]models.Revision, error) {
	return s.revisions, s.err
}

func (s *stubSource) EditSummary(context.Context, *models.Project, *models.User, pipeline.DateWindow) (*models.EditSummary, error) {
	return s.summary, s.err
}

func TestService_LatestEdits(t *testing.T) {
	project := &models.Project{
		Domain:       "en.wikipedia.org",
		DatabaseName: "enwiki",
		Namespaces:   map[int]string{0: "", 1: "Talk"},
	}
	user := &models.User{Name: "Example", Kind: models.UserNamed}

	revs := make([]models.Revision, 2)
	for i := range revs {
		revs[i] = models.Revision{
			ID:        int64(100 - i),
			Timestamp: time.Date(2024, 6, 2-i, 10, 0, 0, 0, time.UTC),
			Namespace: 1,
			PageTitle: "Example",
		}
	}

	t.Run("full page carries a token", func(t *testing.T) {
		svc := NewService(&stubSource{revisions: revs})

		out, token, err := svc.LatestEdits(context.Background(), project, user,
			pipeline.AllNamespaces(), pipeline.PaginationState{Limit: 2})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Talk:Example", out[0].FullPageTitle)
		assert.Equal(t, "2024-06-01T10:00:00", token)
	})

	t.Run("partial page has no token", func(t *testing.T) {
		svc := NewService(&stubSource{revisions: revs})

		_, token, err := svc.LatestEdits(context.Background(), project, user,
			pipeline.AllNamespaces(), pipeline.PaginationState{Limit: 5})
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("source failure propagates", func(t *testing.T) {
		svc := NewService(&stubSource{err: pipeline.ErrDownstreamUnavailable})

		_, _, err := svc.LatestEdits(context.Background(), project, user,
			pipeline.AllNamespaces(), pipeline.PaginationState{Limit: 2})
		assert.ErrorIs(t, err, pipeline.ErrDownstreamUnavailable)
	})
}

func TestService_EditSummary(t *testing.T) {
	svc := NewService(&stubSource{summary: &models.EditSummary{TotalEdits: 10}})

	summary, err := svc.EditSummary(context.Background(), nil, nil, pipeline.DateWindow{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.TotalEdits)
}
