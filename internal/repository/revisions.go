// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package repository

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"

	"github.com/wikiscope/wikiscope/internal/models"
	"github.com/wikiscope/wikiscope/internal/pipeline"
)

// RevisionRepository reads a user's edit history from per-project replica
// tables.
type RevisionRepository struct {
	replica *Replica
}

// NewRevisionRepository returns a replica-backed revision source.
func NewRevisionRepository(replica *Replica) *RevisionRepository {
	return &RevisionRepository{replica: replica}
}

// LatestEdits returns the user's most recent live edits in descending
// chronological order, filtered by namespace and bounded by the
// continuation offset when present.
func (r *RevisionRepository) LatestEdits(ctx context.Context, project *models.Project, user *models.User, ns pipeline.NamespaceSelector, pag pipeline.PaginationState) ([]models.Revision, error) {
	var (
		conditions []string
		args       []any
	)

	userCond, userArgs, err := userCondition(project, user)
	if err != nil {
		return nil, err
	}
	conditions = append(conditions, userCond)
	args = append(args, userArgs...)

	if id, ok := ns.ID(); ok {
		conditions = append(conditions, "page.page_namespace = ?")
		args = append(args, id)
	}
	if pag.HasOffset {
		conditions = append(conditions, "rev.rev_timestamp < ?")
		args = append(args, formatMWTimestamp(pag.Offset))
	}

	query := fmt.Sprintf(`
SELECT rev.rev_id, rev.rev_timestamp, page.page_namespace, page.page_title,
       COALESCE(comment.comment_text, ''), rev.rev_minor_edit,
       COALESCE(rev.rev_len, 0), COALESCE(parent.rev_len, 0)
FROM %s rev
JOIN %s page ON page.page_id = rev.rev_page
JOIN %s actor ON actor.actor_id = rev.rev_actor
LEFT JOIN %s parent ON parent.rev_id = rev.rev_parent_id
LEFT JOIN %s comment ON comment.comment_id = rev.rev_comment_id
WHERE %s
ORDER BY rev.rev_timestamp DESC
LIMIT ?`,
		projectTable(project.DatabaseName, "revision_userindex"),
		projectTable(project.DatabaseName, "page"),
		projectTable(project.DatabaseName, "actor"),
		projectTable(project.DatabaseName, "revision"),
		projectTable(project.DatabaseName, "comment"),
		strings.Join(conditions, " AND "))
	args = append(args, pag.Limit)

	rows, err := r.replica.Query(ctx, "latest_edits", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		var (
			rev       models.Revision
			rawTS     string
			minor     int
			parentLen int
		)
		if err := rows.Scan(&rev.ID, &rawTS, &rev.Namespace, &rev.PageTitle, &rev.Comment, &minor, &rev.Length, &parentLen); err != nil {
			return nil, err
		}
		ts, err := parseMWTimestamp(rawTS)
		if err != nil {
			return nil, fmt.Errorf("latest_edits: bad timestamp %q: %w", rawTS, err)
		}
		rev.Timestamp = ts
		rev.Minor = minor != 0
		rev.LengthChange = rev.Length - parentLen
		rev.PageTitle = strings.ReplaceAll(rev.PageTitle, "_", " ")
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// EditSummary aggregates the user's live and deleted edit counts inside a
// date window.
func (r *RevisionRepository) EditSummary(ctx context.Context, project *models.Project, user *models.User, window pipeline.DateWindow) (*models.EditSummary, error) {
	userCond, userArgs, err := userCondition(project, user)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT COUNT(*),
       COALESCE(SUM(rev.rev_minor_edit), 0),
       MIN(rev.rev_timestamp), MAX(rev.rev_timestamp)
FROM %s rev
JOIN %s actor ON actor.actor_id = rev.rev_actor
WHERE %s AND rev.rev_timestamp >= ? AND rev.rev_timestamp < ?`,
		projectTable(project.DatabaseName, "revision_userindex"),
		projectTable(project.DatabaseName, "actor"),
		userCond)
	args := append(userArgs,
		formatMWTimestamp(window.Start),
		formatMWTimestamp(window.End.AddDate(0, 0, 1)))

	rows, err := r.replica.Query(ctx, "edit_summary", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &models.EditSummary{}
	if rows.Next() {
		var first, latest *string
		if err := rows.Scan(&summary.TotalEdits, &summary.MinorEdits, &first, &latest); err != nil {
			return nil, err
		}
		summary.LiveEdits = summary.TotalEdits
		if first != nil {
			if ts, err := parseMWTimestamp(*first); err == nil {
				summary.FirstEdit = &ts
			}
		}
		if latest != nil {
			if ts, err := parseMWTimestamp(*latest); err == nil {
				summary.LatestEdit = &ts
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	deleted, err := r.deletedEdits(ctx, project, user, window)
	if err != nil {
		return nil, err
	}
	summary.DeletedEdits = deleted
	summary.TotalEdits += deleted

	return summary, nil
}

func (r *RevisionRepository) deletedEdits(ctx context.Context, project *models.Project, user *models.User, window pipeline.DateWindow) (int64, error) {
	// The archive table has no per-IP index, so deleted edits are only
	// counted for named accounts.
	if user.Kind != models.UserNamed {
		return 0, nil
	}

	query := fmt.Sprintf(`
SELECT COUNT(*)
FROM %s ar
JOIN %s actor ON actor.actor_id = ar.ar_actor
WHERE actor.actor_name = ? AND ar.ar_timestamp >= ? AND ar.ar_timestamp < ?`,
		projectTable(project.DatabaseName, "archive_userindex"),
		projectTable(project.DatabaseName, "actor"))

	rows, err := r.replica.Query(ctx, "deleted_edits", query,
		user.Name,
		formatMWTimestamp(window.Start),
		formatMWTimestamp(window.End.AddDate(0, 0, 1)))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

// userCondition builds the predicate selecting the user's revisions. Named
// accounts and single IPs match on actor name; CIDR ranges go through the
// ip_changes hex index.
func userCondition(project *models.Project, user *models.User) (string, []any, error) {
	if user.Kind != models.UserIPRange {
		return "actor.actor_name = ?", []any{user.Name}, nil
	}

	first, last, err := ipHexRange(user.Name)
	if err != nil {
		return "", nil, err
	}
	cond := fmt.Sprintf("rev.rev_id IN (SELECT ipc_rev_id FROM %s WHERE ipc_hex BETWEEN ? AND ?)",
		projectTable(project.DatabaseName, "ip_changes"))
	return cond, []any{first, last}, nil
}

// ipHexRange computes the inclusive ipc_hex bounds of a CIDR range, using
// the replica's packed representation: eight uppercase hex digits for
// IPv4, "v6-" plus thirty-two for IPv6.
func ipHexRange(cidr string) (string, string, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return "", "", err
	}
	prefix = prefix.Masked()

	firstAddr := prefix.Addr()
	lastBytes := firstAddr.AsSlice()
	for bit := prefix.Bits(); bit < len(lastBytes)*8; bit++ {
		lastBytes[bit/8] |= 1 << (7 - bit%8)
	}

	return packIPHex(firstAddr.AsSlice()), packIPHex(lastBytes), nil
}

func packIPHex(b []byte) string {
	h := strings.ToUpper(hex.EncodeToString(b))
	if len(b) == 4 {
		return h
	}
	return "v6-" + h
}
