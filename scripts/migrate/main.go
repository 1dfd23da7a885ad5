// Package main provides a standalone migration script that reads legacy
// campaign comments from SQLite and writes them to PostgreSQL for FundForge.
//
// Usage:
//
//	SQLITE_PATH=/path/to/legacy.sqlite DATABASE_URL=postgres://... go run .
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite"
)

// config holds environment-driven migration settings.
type config struct {
	SQLitePath  string
	DatabaseURL string
	DryRun      bool
}

// skippedReport records a legacy report row that was skipped during migration.
type skippedReport struct {
	CommentID  string
	ReporterID string
	Reason     string
}

// report holds the final migration summary.
type report struct {
	Source           string
	Target           string
	CommentsRead     int
	CommentsInserted int
	CommentsVerified int
	ReportsRead      int
	ReportsInserted  int
	ReportsSkipped   int
	SkippedReports   []skippedReport
	SpotChecks       []string
	Duration         time.Duration
	DryRun           bool
	Err              error
}

func main() {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	slog.Info("starting migration",
		"sqlite", cfg.SQLitePath,
		"dry_run", cfg.DryRun,
	)

	start := time.Now()
	r, err := runMigration(context.Background(), cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		slog.Error("migration failed", "error", err)
	}
	printReport(&r)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		SQLitePath:  envOr("SQLITE_PATH", "legacy/comments.sqlite"),
		DatabaseURL: envOr("DATABASE_URL", ""),
		DryRun:      os.Getenv("DRY_RUN") == "true" || os.Getenv("DRY_RUN") == "1",
	}
}

// runMigration executes the full migration pipeline.
func runMigration(ctx context.Context, cfg config) (report, error) {
	r := report{
		Source: cfg.SQLitePath,
		Target: sanitizeURL(cfg.DatabaseURL),
		DryRun: cfg.DryRun,
	}

	// Open SQLite (read-only).
	lite, err := sql.Open("sqlite", cfg.SQLitePath+"?mode=ro")
	if err != nil {
		return r, fmt.Errorf("open sqlite: %w", err)
	}
	defer lite.Close()

	// Read comments and reports from SQLite.
	comments, err := readComments(ctx, lite)
	if err != nil {
		return r, fmt.Errorf("read comments: %w", err)
	}
	r.CommentsRead = len(comments)
	slog.Info("read comments from sqlite", "count", r.CommentsRead)

	reports, err := readReports(ctx, lite)
	if err != nil {
		return r, fmt.Errorf("read reports: %w", err)
	}
	r.ReportsRead = len(reports)
	slog.Info("read reports from sqlite", "count", r.ReportsRead)

	if cfg.DryRun {
		slog.Info("dry run — skipping PostgreSQL writes")
		r.CommentsInserted = r.CommentsRead
		r.ReportsInserted = r.ReportsRead
		return r, nil
	}

	// Connect to PostgreSQL and run in a transaction.
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return r, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := insertComments(ctx, tx, comments); err != nil {
		return r, fmt.Errorf("insert comments: %w", err)
	}
	r.CommentsInserted = len(comments)
	slog.Info("inserted comments", "count", r.CommentsInserted)

	inserted, skipped := insertReports(ctx, tx, reports, buildCommentSet(comments))
	r.ReportsInserted = inserted
	r.ReportsSkipped = len(skipped)
	r.SkippedReports = skipped
	slog.Info("inserted reports", "count", r.ReportsInserted, "skipped", r.ReportsSkipped)

	// Verify counts.
	r.CommentsVerified, err = countRows(ctx, tx, "comments")
	if err != nil {
		return r, fmt.Errorf("verify comment count: %w", err)
	}

	// Spot-check random comments.
	r.SpotChecks, err = spotCheck(ctx, tx, comments)
	if err != nil {
		return r, fmt.Errorf("spot check: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return r, fmt.Errorf("commit: %w", err)
	}
	slog.Info("transaction committed")
	return r, nil
}
