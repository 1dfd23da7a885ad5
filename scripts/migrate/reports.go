package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// commentReport represents a legacy report row read from SQLite.
type commentReport struct {
	CommentID  string
	ReporterID string
	Created    string
}

// readReports reads all comment reports from the legacy SQLite database.
func readReports(ctx context.Context, db *sql.DB) ([]commentReport, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT comment_id, reporter_id, created FROM comment_reports`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []commentReport
	for rows.Next() {
		var rep commentReport
		if err := rows.Scan(&rep.CommentID, &rep.ReporterID, &rep.Created); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// insertReports inserts reports whose comment survived migration; rows
// pointing at missing comments are skipped, not fatal.
func insertReports(ctx context.Context, tx pgx.Tx, reports []commentReport, commentSet map[string]bool) (int, []skippedReport) {
	var inserted int
	var skipped []skippedReport

	for i := range reports {
		rep := &reports[i]
		if !commentSet[rep.CommentID] {
			skipped = append(skipped, skippedReport{
				CommentID:  rep.CommentID,
				ReporterID: rep.ReporterID,
				Reason:     "comment not migrated",
			})
			continue
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO comment_reports (comment_id, reporter_id, created_at)
			 VALUES ($1,$2,$3)
			 ON CONFLICT (comment_id, reporter_id) DO NOTHING`,
			rep.CommentID, rep.ReporterID, parseTime(rep.Created))
		if err != nil {
			slog.Warn("skipping report", "comment", rep.CommentID, "error", err)
			skipped = append(skipped, skippedReport{
				CommentID:  rep.CommentID,
				ReporterID: rep.ReporterID,
				Reason:     err.Error(),
			})
			continue
		}
		inserted++
	}
	return inserted, skipped
}

// reportCountsMatch is a consistency probe: the denormalized report_count on
// a comment should not be lower than the number of report rows.
func reportCountsMatch(ctx context.Context, tx pgx.Tx, commentID string) (bool, error) {
	var count, rows int
	err := tx.QueryRow(ctx,
		`SELECT c.report_count, count(r.reporter_id)
		 FROM comments c LEFT JOIN comment_reports r ON r.comment_id = c.id
		 WHERE c.id = $1
		 GROUP BY c.report_count`, commentID,
	).Scan(&count, &rows)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return count >= rows, nil
}
