// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package stats

import (
	"context"

	"github.com/wikiscope/wikiscope/internal/models"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

// RevisionSource is the backing store the statistics read from.
type RevisionSource interface {
	LatestEdits(ctx context.Context, project *models.Project, user *models.User, ns pipeline.NamespaceSelector, pag pipeline.PaginationState) ([]models.Revision, error)
	EditSummary(ctx context.Context, project *models.Project, user *models.User, window pipeline.DateWindow) (*models.EditSummary, error)
}

// Service computes user statistics.
type Service struct {
	revisions RevisionSource
}

// NewService constructs the statistics service.
func NewService(revisions RevisionSource) *Service {
	return &Service{revisions: revisions}
}

// LatestEdits returns the user's most recent edits with full page titles
// attached, plus the continuation token when the page is exactly full.
func (s *Service) LatestEdits(ctx context.Context, project *models.Project, user *models.User, ns pipeline.NamespaceSelector, pag pipeline.PaginationState) ([]models.Revision, string, error) {
	revisions, err := s.revisions.LatestEdits(ctx, project, user, ns, pag)
	if err != nil {
		return nil, "", err
	}
	revisions, token := pipeline.BuildContinuation(project, revisions, pag.Limit)
	return revisions, token, nil
}

// EditSummary aggregates the user's activity inside the date window.
func (s *Service) EditSummary(ctx context.Context, project *models.Project, user *models.User, window pipeline.DateWindow) (*models.EditSummary, error) {
	return s.revisions.EditSummary(ctx, project, user, window)
}
