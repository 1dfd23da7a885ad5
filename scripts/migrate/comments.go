package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// comment represents a legacy campaign comment read from SQLite.
type comment struct {
	ID          string
	CampaignID  string
	AuthorID    string
	Body        string
	State       string
	ReportCount int
	Created     string
	Updated     string
}

// legacyStates maps old platform status values to the moderation states the
// FundForge schema accepts. Unknown values fall back to "visible".
var legacyStates = map[string]string{
	"active":     "visible",
	"flagged":    "reported",
	"suppressed": "hidden",
	"deleted":    "removed",
	// Already-migrated values pass through.
	"visible":  "visible",
	"reported": "reported",
	"hidden":   "hidden",
	"removed":  "removed",
}

// readComments reads all comments from the legacy SQLite database.
func readComments(ctx context.Context, db *sql.DB) ([]comment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, campaign_id, author_id, body, status, report_count, created, updated
		 FROM comments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []comment
	for rows.Next() {
		var c comment
		var status sql.NullString
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.AuthorID, &c.Body,
			&status, &c.ReportCount, &c.Created, &c.Updated); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.State = mapState(status)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// mapState translates a legacy status value to a moderation state.
func mapState(status sql.NullString) string {
	if !status.Valid {
		return "visible"
	}
	if s, ok := legacyStates[status.String]; ok {
		return s
	}
	return "visible"
}

// insertComments batch-inserts comments into PostgreSQL in groups of 100.
func insertComments(ctx context.Context, tx pgx.Tx, comments []comment) error {
	const batchSize = 100
	for i := 0; i < len(comments); i += batchSize {
		end := min(i+batchSize, len(comments))
		if err := insertCommentBatch(ctx, tx, comments[i:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// insertCommentBatch inserts a single batch of comments.
func insertCommentBatch(ctx context.Context, tx pgx.Tx, batch []comment) error {
	for i := range batch {
		c := &batch[i]
		createdAt := parseTime(c.Created)
		updatedAt := parseTime(c.Updated)

		_, err := tx.Exec(ctx,
			`INSERT INTO comments (id, campaign_id, author_id, body, state,
			    report_count, version, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,1,$7,$8)
			 ON CONFLICT (id) DO NOTHING`,
			c.ID, c.CampaignID, c.AuthorID, c.Body, c.State,
			c.ReportCount, createdAt, updatedAt)
		if err != nil {
			return fmt.Errorf("inserting comment %s: %w", c.ID, err)
		}
	}
	return nil
}

// buildCommentSet returns the set of migrated comment IDs for FK checks.
func buildCommentSet(comments []comment) map[string]bool {
	set := make(map[string]bool, len(comments))
	for i := range comments {
		set[comments[i].ID] = true
	}
	return set
}
