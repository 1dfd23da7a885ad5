package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fundforge/fundforge/internal/models"
)

// CommentStore handles comment persistence, including the version-conditioned
// writes the moderation state machine relies on.
type CommentStore struct {
	Base
}

// NewCommentStore creates a CommentStore.
func NewCommentStore(base Base) *CommentStore {
	return &CommentStore{Base: base}
}

const commentColumns = "id, campaign_id, author_id, body, state, report_count, version, created_at, updated_at"

func scanComment(scan func(...any) error) (*models.Comment, error) {
	var c models.Comment
	err := scan(&c.ID, &c.CampaignID, &c.AuthorID, &c.Body, &c.State,
		&c.ReportCount, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a new visible comment and returns the created record.
func (s *CommentStore) CreateComment(
	ctx context.Context, authorID string, req models.CreateCommentRequest,
) (*models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO comments (id, campaign_id, author_id, body, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + commentColumns

	row := s.Pool.QueryRow(ctx, query, req.ID, req.CampaignID, authorID, req.Body, models.StateVisible)

	c, err := scanComment(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created comment: %w", err)
	}

	return c, nil
}

// GetComment returns a single comment by ID.
func (s *CommentStore) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = $1", commentID)

	c, err := scanComment(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCommentNotFound
		}

		return nil, fmt.Errorf("scanning comment: %w", err)
	}

	return c, nil
}

// UpdateState moves the comment to the given state, conditioned on the
// version observed when the transition was authorized. A stale version
// yields models.ErrVersionConflict so the caller can retry against fresh
// state; a missing row yields models.ErrCommentNotFound.
func (s *CommentStore) UpdateState(
	ctx context.Context, commentID string, expectVersion int64, state models.ModerationState,
) (*models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `
		UPDATE comments
		SET state = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING `+commentColumns,
		state, commentID, expectVersion,
	)

	c, err := scanComment(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMiss(ctx, commentID)
		}

		return nil, fmt.Errorf("updating comment state: %w", err)
	}

	return c, nil
}

// AddReport registers a distinct report against the comment. Reporting is
// idempotent per reporter: a duplicate report is a no-op, not an error, and
// leaves state and count untouched. The first report moves a visible
// comment to reported; the count increment and the reporter row commit in
// one transaction, conditioned on the observed version.
func (s *CommentStore) AddReport(
	ctx context.Context, commentID string, expectVersion int64, reporterID string,
) (c *models.Comment, added bool, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx, `
		INSERT INTO comment_reports (comment_id, reporter_id)
		VALUES ($1, $2)
		ON CONFLICT (comment_id, reporter_id) DO NOTHING`,
		commentID, reporterID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, false, models.ErrCommentNotFound
		}

		return nil, false, fmt.Errorf("inserting comment report: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Duplicate reporter. Return current state without touching it.
		row := tx.QueryRow(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", commentID)

		c, err = scanComment(row.Scan)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, models.ErrCommentNotFound
			}

			return nil, false, fmt.Errorf("scanning reported comment: %w", err)
		}

		return c, false, tx.Commit(ctx)
	}

	row := tx.QueryRow(ctx, `
		UPDATE comments
		SET report_count = report_count + 1,
		    state = CASE WHEN state = $1 THEN $2 ELSE state END,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING `+commentColumns,
		models.StateVisible, models.StateReported, commentID, expectVersion,
	)

	c, err = scanComment(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, s.classifyMiss(ctx, commentID)
		}

		return nil, false, fmt.Errorf("updating report count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing report: %w", err)
	}

	return c, true, nil
}

// classifyMiss distinguishes a stale version from a missing comment after a
// conditioned write matched no rows.
func (s *CommentStore) classifyMiss(ctx context.Context, commentID string) error {
	var exists bool
	if err := s.Pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)", commentID).Scan(&exists); err != nil {
		return fmt.Errorf("classifying conditioned write miss: %w", err)
	}

	if exists {
		return models.ErrVersionConflict
	}

	return models.ErrCommentNotFound
}

// HasReported reports whether the given user already reported the comment.
func (s *CommentStore) HasReported(ctx context.Context, commentID, reporterID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	err := s.Pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM comment_reports WHERE comment_id = $1 AND reporter_id = $2)",
		commentID, reporterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking report existence: %w", err)
	}

	return exists, nil
}
