package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/store"
)

func TestCreateAndGetComment(t *testing.T) {
	base := setupTestBase(t)
	cs := store.NewCommentStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-1")

	got, err := cs.GetComment(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}

	if got.State != models.StateVisible {
		t.Errorf("State = %q, want visible", got.State)
	}
	if got.ReportCount != 0 {
		t.Errorf("ReportCount = %d, want 0", got.ReportCount)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if got.AuthorID != "author-1" {
		t.Errorf("AuthorID = %q", got.AuthorID)
	}
}

func TestGetComment_NotFound(t *testing.T) {
	base := setupTestBase(t)
	cs := store.NewCommentStore(base)

	_, err := cs.GetComment(context.Background(), "no-such-comment")
	if !errors.Is(err, models.ErrCommentNotFound) {
		t.Fatalf("err = %v, want ErrCommentNotFound", err)
	}
}

func TestUpdateState_VersionConditioned(t *testing.T) {
	base := setupTestBase(t)
	cs := store.NewCommentStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-1")

	updated, err := cs.UpdateState(ctx, c.ID, c.Version, models.StateHidden)
	if err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	if updated.State != models.StateHidden {
		t.Errorf("State = %q, want hidden", updated.State)
	}
	if updated.Version != c.Version+1 {
		t.Errorf("Version = %d, want %d", updated.Version, c.Version+1)
	}

	// A second write conditioned on the stale version must conflict.
	_, err = cs.UpdateState(ctx, c.ID, c.Version, models.StateRemoved)
	if !errors.Is(err, models.ErrVersionConflict) {
		t.Fatalf("stale write err = %v, want ErrVersionConflict", err)
	}

	// Missing comments are reported as not-found, not as a conflict.
	_, err = cs.UpdateState(ctx, "no-such-comment", 1, models.StateHidden)
	if !errors.Is(err, models.ErrCommentNotFound) {
		t.Fatalf("missing comment err = %v, want ErrCommentNotFound", err)
	}
}

func TestAddReport_IdempotentPerReporter(t *testing.T) {
	base := setupTestBase(t)
	cs := store.NewCommentStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-1")

	first, added, err := cs.AddReport(ctx, c.ID, c.Version, "reporter-1")
	if err != nil {
		t.Fatalf("AddReport: %v", err)
	}
	if !added {
		t.Fatal("first report not added")
	}
	if first.ReportCount != 1 {
		t.Errorf("ReportCount = %d, want 1", first.ReportCount)
	}
	if first.State != models.StateReported {
		t.Errorf("State = %q, want reported", first.State)
	}

	// Same reporter again: no-op, count unchanged.
	again, added, err := cs.AddReport(ctx, c.ID, first.Version, "reporter-1")
	if err != nil {
		t.Fatalf("duplicate AddReport: %v", err)
	}
	if added {
		t.Error("duplicate report was counted")
	}
	if again.ReportCount != 1 {
		t.Errorf("ReportCount after duplicate = %d, want 1", again.ReportCount)
	}

	// A distinct reporter increments the count but leaves state reported.
	second, added, err := cs.AddReport(ctx, c.ID, again.Version, "reporter-2")
	if err != nil {
		t.Fatalf("second AddReport: %v", err)
	}
	if !added {
		t.Fatal("second reporter not added")
	}
	if second.ReportCount != 2 {
		t.Errorf("ReportCount = %d, want 2", second.ReportCount)
	}
	if second.State != models.StateReported {
		t.Errorf("State = %q, want reported", second.State)
	}
}

func TestHasReported(t *testing.T) {
	base := setupTestBase(t)
	cs := store.NewCommentStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-1")

	if _, _, err := cs.AddReport(ctx, c.ID, c.Version, "reporter-1"); err != nil {
		t.Fatalf("AddReport: %v", err)
	}

	reported, err := cs.HasReported(ctx, c.ID, "reporter-1")
	if err != nil {
		t.Fatalf("HasReported: %v", err)
	}
	if !reported {
		t.Error("HasReported = false for existing report")
	}

	reported, err = cs.HasReported(ctx, c.ID, "reporter-2")
	if err != nil {
		t.Fatalf("HasReported: %v", err)
	}
	if reported {
		t.Error("HasReported = true for absent report")
	}
}
