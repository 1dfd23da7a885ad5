package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/store"
)

func TestAppendAndQuery(t *testing.T) {
	base := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-7")

	rec := models.AuditRecord{
		Action:        models.ActionHide,
		EntityType:    "comment",
		EntityID:      c.ID,
		EntityOwnerID: "author-7",
		ActorType:     models.ActorUser,
		ActorID:       "mod-1",
		ActorRole:     models.RoleModerator,
		Description:   "comment " + c.ID + " hidden by moderator",
		OldValues:     map[string]any{"state": "visible"},
		NewValues:     map[string]any{"state": "hidden"},
		Metadata:      map[string]any{"reason": "spam"},
	}

	if err := as.Append(ctx, &rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID == 0 {
		t.Error("Append did not assign a sequence")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Append did not assign a timestamp")
	}

	records, hasMore, err := as.Query(ctx, models.AuditQueryOpts{
		EntityType: "comment",
		EntityID:   c.ID,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Query returned %d records, want 1", len(records))
	}
	if hasMore {
		t.Error("hasMore = true, want false")
	}

	got := records[0]
	if got.Action != models.ActionHide {
		t.Errorf("Action = %q", got.Action)
	}
	if got.ActorID != "mod-1" || got.ActorRole != models.RoleModerator {
		t.Errorf("actor = %q/%q", got.ActorID, got.ActorRole)
	}
	if got.EntityOwnerID != "author-7" {
		t.Errorf("EntityOwnerID = %q", got.EntityOwnerID)
	}
	if got.OldValues["state"] != "visible" || got.NewValues["state"] != "hidden" {
		t.Errorf("values = %v / %v", got.OldValues, got.NewValues)
	}
	if got.Metadata["reason"] != "spam" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
}

func TestQuery_AppendOrder(t *testing.T) {
	base := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-1")

	actions := []models.Action{models.ActionReport, models.ActionHide, models.ActionRestore, models.ActionRemove}
	for i, action := range actions {
		rec := models.AuditRecord{
			Action:      action,
			EntityType:  "comment",
			EntityID:    c.ID,
			ActorType:   models.ActorUser,
			ActorID:     fmt.Sprintf("actor-%d", i),
			ActorRole:   models.RoleModerator,
			Description: string(action),
		}
		if err := as.Append(ctx, &rec); err != nil {
			t.Fatalf("Append %s: %v", action, err)
		}
	}

	records, _, err := as.Query(ctx, models.AuditQueryOpts{EntityID: c.ID, Limit: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != len(actions) {
		t.Fatalf("got %d records, want %d", len(records), len(actions))
	}

	for i, rec := range records {
		if rec.Action != actions[i] {
			t.Errorf("record %d action = %q, want %q", i, rec.Action, actions[i])
		}
		if i > 0 && records[i].ID <= records[i-1].ID {
			t.Errorf("sequence not monotonic at %d: %d <= %d", i, records[i].ID, records[i-1].ID)
		}
	}
}

func TestPurgeOldRecords(t *testing.T) {
	base := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()

	c := newTestComment(t, base, "author-1")

	old := models.AuditRecord{
		Action: models.ActionRemove, EntityType: "comment", EntityID: c.ID,
		ActorType: models.ActorSystem, Description: "old record",
	}
	if err := as.Append(ctx, &old); err != nil {
		t.Fatalf("Append: %v", err)
	}

	env := getTestEnv(t)
	if _, err := env.pool.Exec(ctx,
		"UPDATE audit_log SET created_at = NOW() - INTERVAL '400 days' WHERE id = $1", old.ID); err != nil {
		t.Fatalf("backdating audit record: %v", err)
	}

	recent := models.AuditRecord{
		Action: models.ActionHide, EntityType: "comment", EntityID: c.ID,
		ActorType: models.ActorSystem, Description: "recent record",
	}
	if err := as.Append(ctx, &recent); err != nil {
		t.Fatalf("Append recent: %v", err)
	}

	deleted, err := as.PurgeOldRecords(ctx, 90)
	if err != nil {
		t.Fatalf("PurgeOldRecords: %v", err)
	}
	if deleted < 1 {
		t.Errorf("deleted = %d, want >= 1", deleted)
	}

	records, _, err := as.Query(ctx, models.AuditQueryOpts{EntityID: c.ID, Limit: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || records[0].ID != recent.ID {
		t.Errorf("expected only the recent record to survive, got %v", records)
	}
}
