package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/policy"
)

func newTestAuditService(t *testing.T, store *mockAuditQueryStore) *AuditService {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	engine, err := policy.NewEngine(policy.Default())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	return NewAuditService(store, engine, log)
}

func TestAuditQuery_CapabilityGate(t *testing.T) {
	tests := []struct {
		name    string
		actor   models.Actor
		allowed bool
	}{
		{name: "moderator may view", actor: models.UserActor("mod-1", models.RoleModerator), allowed: true},
		{name: "admin may view", actor: models.UserActor("adm-1", models.RoleAdmin), allowed: true},
		{name: "system may view", actor: models.SystemActor(), allowed: true},
		{name: "user denied", actor: models.UserActor("u1", models.RoleUser), allowed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			queried := false
			store := &mockAuditQueryStore{
				query: func(_ context.Context, _ models.AuditQueryOpts) ([]models.AuditRecord, bool, error) {
					queried = true
					return []models.AuditRecord{{ID: 1, Action: models.ActionHide}}, false, nil
				},
			}
			svc := newTestAuditService(t, store)

			records, _, err := svc.Query(context.Background(), tc.actor, models.AuditQueryOpts{Limit: 10})

			if tc.allowed {
				if err != nil {
					t.Fatalf("Query: %v", err)
				}
				if len(records) != 1 {
					t.Errorf("got %d records", len(records))
				}
				return
			}

			var denied *models.DeniedError
			if !errors.As(err, &denied) {
				t.Fatalf("err = %v, want DeniedError", err)
			}
			if queried {
				t.Error("store queried despite denial")
			}
		})
	}
}

func TestAuditPurge_AdminOnly(t *testing.T) {
	tests := []struct {
		name    string
		actor   models.Actor
		allowed bool
	}{
		{name: "admin may purge", actor: models.UserActor("adm-1", models.RoleAdmin), allowed: true},
		{name: "moderator denied", actor: models.UserActor("mod-1", models.RoleModerator), allowed: false},
		{name: "system denied", actor: models.SystemActor(), allowed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockAuditQueryStore{
				purge: func(_ context.Context, retentionDays int) (int, error) {
					if retentionDays != 90 {
						t.Errorf("retentionDays = %d", retentionDays)
					}
					return 42, nil
				},
			}
			svc := newTestAuditService(t, store)

			deleted, err := svc.Purge(context.Background(), tc.actor, 90, nil)

			if !tc.allowed {
				var denied *models.DeniedError
				if !errors.As(err, &denied) {
					t.Fatalf("err = %v, want DeniedError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Purge: %v", err)
			}
			if deleted != 42 {
				t.Errorf("deleted = %d, want 42", deleted)
			}

			// The purge leaves its own trace.
			records := store.getRecords()
			if len(records) != 1 {
				t.Fatalf("got %d audit records, want 1", len(records))
			}
			rec := records[0]
			if rec.Action != models.ActionAuditPurge {
				t.Errorf("Action = %q", rec.Action)
			}
			if rec.Metadata["deleted"] != 42 || rec.Metadata["retention_days"] != 90 {
				t.Errorf("Metadata = %v", rec.Metadata)
			}
		})
	}
}

func TestAuditPurge_RecordFailureDoesNotFailPurge(t *testing.T) {
	store := &mockAuditQueryStore{
		purge: func(_ context.Context, _ int) (int, error) { return 7, nil },
	}
	store.failErr = errors.New("append failed")
	svc := newTestAuditService(t, store)

	deleted, err := svc.Purge(context.Background(), models.UserActor("adm-1", models.RoleAdmin), 30, nil)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if deleted != 7 {
		t.Errorf("deleted = %d, want 7", deleted)
	}
}
