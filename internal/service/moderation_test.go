package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/policy"
)

func testComment(state models.ModerationState) *models.Comment {
	return &models.Comment{
		ID:          "c1",
		CampaignID:  "camp1",
		AuthorID:    "author-7",
		Body:        "first!",
		State:       state,
		ReportCount: 0,
		Version:     3,
	}
}

func newTestModerationService(t *testing.T, store *mockModerationStore, auditor *mockAuditor, denials AuditEnqueuer) *ModerationService {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	engine, err := policy.NewEngine(policy.Default())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	return NewModerationService(store, auditor, denials, engine, log)
}

// staticStore returns a mock whose GetComment serves the given comment and
// whose UpdateState applies the requested state on version match.
func staticStore(c *models.Comment) *mockModerationStore {
	return &mockModerationStore{
		getComment: func(_ context.Context, _ string) (*models.Comment, error) {
			cp := *c
			return &cp, nil
		},
		updateState: func(_ context.Context, _ string, expectVersion int64, state models.ModerationState) (*models.Comment, error) {
			if expectVersion != c.Version {
				return nil, models.ErrVersionConflict
			}
			cp := *c
			cp.State = state
			cp.Version = expectVersion + 1
			return &cp, nil
		},
	}
}

func TestHide_CommitsAndAudits(t *testing.T) {
	c := testComment(models.StateVisible)
	store := staticStore(c)
	auditor := &mockAuditor{}
	svc := newTestModerationService(t, store, auditor, nil)

	moderator := models.UserActor("mod-1", models.RoleModerator)
	rc := &models.RequestContext{IPAddress: "10.1.2.3", UserAgent: "cli"}

	result, err := svc.Hide(context.Background(), moderator, "c1", "spam", rc)
	if err != nil {
		t.Fatalf("Hide: %v", err)
	}

	if result.Comment.State != models.StateHidden {
		t.Errorf("State = %q, want hidden", result.Comment.State)
	}
	if result.AuditWriteFailed {
		t.Error("AuditWriteFailed = true")
	}
	if result.Record == nil {
		t.Fatal("no audit record on result")
	}

	records := auditor.getRecords()
	if len(records) != 1 {
		t.Fatalf("got %d audit records, want 1", len(records))
	}

	rec := records[0]
	if rec.Action != models.ActionHide {
		t.Errorf("Action = %q", rec.Action)
	}
	if rec.EntityID != "c1" || rec.EntityOwnerID != "author-7" {
		t.Errorf("entity = %q owner = %q", rec.EntityID, rec.EntityOwnerID)
	}
	if !reflect.DeepEqual(rec.OldValues, map[string]any{"state": "visible"}) {
		t.Errorf("OldValues = %v", rec.OldValues)
	}
	if !reflect.DeepEqual(rec.NewValues, map[string]any{"state": "hidden"}) {
		t.Errorf("NewValues = %v", rec.NewValues)
	}
	if rec.Metadata["reason"] != "spam" {
		t.Errorf("Metadata = %v", rec.Metadata)
	}
	if rec.IPAddress != "10.1.2.3" {
		t.Errorf("IPAddress = %q", rec.IPAddress)
	}
}

func TestHide_DeniedForUserRole(t *testing.T) {
	c := testComment(models.StateVisible)
	store := staticStore(c)
	auditor := &mockAuditor{}
	denials := &mockEnqueuer{}
	svc := newTestModerationService(t, store, auditor, denials)

	_, err := svc.Hide(context.Background(), models.UserActor("u1", models.RoleUser), "c1", "", nil)

	var denied *models.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %v, want DeniedError", err)
	}
	if denied.Reason != models.DenyInsufficientRole {
		t.Errorf("Reason = %q", denied.Reason)
	}

	// Denial left no primary audit record but a best-effort denial job.
	if len(auditor.getRecords()) != 0 {
		t.Error("denied action produced a committed audit record")
	}
	jobs := denials.getJobs()
	if len(jobs) != 1 {
		t.Fatalf("got %d denial jobs, want 1", len(jobs))
	}
	if jobs[0].Record.Action != models.ActionAuthDenied {
		t.Errorf("denial job action = %q", jobs[0].Record.Action)
	}
	if jobs[0].Record.Metadata["capability"] != string(policy.ModerateComment) {
		t.Errorf("denial metadata = %v", jobs[0].Record.Metadata)
	}

	// No mutation was attempted.
	for _, call := range store.callLog() {
		if call == "UpdateState" {
			t.Error("UpdateState called despite denial")
		}
	}
}

func TestDeleteOwn_OwnershipScoping(t *testing.T) {
	tests := []struct {
		name       string
		actor      models.Actor
		wantErr    bool
		wantReason models.DenyReason
	}{
		{name: "author may delete", actor: models.UserActor("author-7", models.RoleUser)},
		{
			name:       "stranger denied",
			actor:      models.UserActor("u9", models.RoleUser),
			wantErr:    true,
			wantReason: models.DenyNotOwner,
		},
		{
			name:       "moderator is still not the owner",
			actor:      models.UserActor("mod-1", models.RoleModerator),
			wantErr:    true,
			wantReason: models.DenyNotOwner,
		},
		{name: "system bypasses ownership", actor: models.SystemActor()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testComment(models.StateVisible)
			store := staticStore(c)
			auditor := &mockAuditor{}
			svc := newTestModerationService(t, store, auditor, nil)

			result, err := svc.DeleteOwn(context.Background(), tc.actor, "c1", nil)

			if tc.wantErr {
				var denied *models.DeniedError
				if !errors.As(err, &denied) {
					t.Fatalf("err = %v, want DeniedError", err)
				}
				if denied.Reason != tc.wantReason {
					t.Errorf("Reason = %q, want %q", denied.Reason, tc.wantReason)
				}
				return
			}

			if err != nil {
				t.Fatalf("DeleteOwn: %v", err)
			}
			if result.Comment.State != models.StateRemoved {
				t.Errorf("State = %q, want removed", result.Comment.State)
			}

			records := auditor.getRecords()
			if len(records) != 1 {
				t.Fatalf("got %d audit records, want 1", len(records))
			}
			if records[0].Action != models.ActionDeleteOwn {
				t.Errorf("Action = %q, want delete_own", records[0].Action)
			}
			if records[0].NewValues != nil {
				t.Errorf("deletion record carries NewValues: %v", records[0].NewValues)
			}
		})
	}
}

func TestRestore_OnlyFromHidden(t *testing.T) {
	moderator := models.UserActor("mod-1", models.RoleModerator)

	t.Run("hidden restores to visible", func(t *testing.T) {
		c := testComment(models.StateHidden)
		svc := newTestModerationService(t, staticStore(c), &mockAuditor{}, nil)

		result, err := svc.Restore(context.Background(), moderator, "c1", "", nil)
		if err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if result.Comment.State != models.StateVisible {
			t.Errorf("State = %q, want visible", result.Comment.State)
		}
	})

	t.Run("removed is not restorable", func(t *testing.T) {
		c := testComment(models.StateRemoved)
		store := staticStore(c)
		auditor := &mockAuditor{}
		svc := newTestModerationService(t, store, auditor, nil)

		_, err := svc.Restore(context.Background(), moderator, "c1", "", nil)

		var invalid *models.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("err = %v, want InvalidTransitionError", err)
		}
		if invalid.State != models.StateRemoved || invalid.Action != models.ActionRestore {
			t.Errorf("invalid = %+v", invalid)
		}
		if len(auditor.getRecords()) != 0 {
			t.Error("invalid transition produced an audit record")
		}
		for _, call := range store.callLog() {
			if call == "UpdateState" {
				t.Error("UpdateState called for invalid transition")
			}
		}
	})
}

// TestTransitionTotality walks every (state, action) pair: pairs outside the
// transition table must yield InvalidTransitionError, never a silent no-op.
func TestTransitionTotality(t *testing.T) {
	valid := map[models.ModerationState]map[models.Action]models.ModerationState{
		models.StateVisible: {
			models.ActionReport:    models.StateReported,
			models.ActionHide:      models.StateHidden,
			models.ActionRemove:    models.StateRemoved,
			models.ActionDeleteOwn: models.StateRemoved,
		},
		models.StateReported: {
			models.ActionReport:    models.StateReported,
			models.ActionHide:      models.StateHidden,
			models.ActionRemove:    models.StateRemoved,
			models.ActionDeleteOwn: models.StateRemoved,
		},
		models.StateHidden: {
			models.ActionHide:      models.StateHidden,
			models.ActionRemove:    models.StateRemoved,
			models.ActionRestore:   models.StateVisible,
			models.ActionDeleteOwn: models.StateRemoved,
		},
		models.StateRemoved: {},
	}

	states := []models.ModerationState{models.StateVisible, models.StateReported, models.StateHidden, models.StateRemoved}
	actions := []models.Action{models.ActionReport, models.ActionHide, models.ActionRemove, models.ActionRestore, models.ActionDeleteOwn}

	for _, state := range states {
		for _, action := range actions {
			target, ok := validTransition(state, action)
			wantTarget, wantOK := valid[state][action]

			if ok != wantOK {
				t.Errorf("(%s, %s): valid = %v, want %v", state, action, ok, wantOK)
				continue
			}
			if ok && target != wantTarget {
				t.Errorf("(%s, %s): target = %s, want %s", state, action, target, wantTarget)
			}
		}
	}
}

func TestModerate_RetriesOnceOnConflict(t *testing.T) {
	c := testComment(models.StateVisible)

	conflicts := 1
	store := &mockModerationStore{
		getComment: func(_ context.Context, _ string) (*models.Comment, error) {
			cp := *c
			return &cp, nil
		},
		updateState: func(_ context.Context, _ string, expectVersion int64, state models.ModerationState) (*models.Comment, error) {
			if conflicts > 0 {
				conflicts--
				return nil, models.ErrVersionConflict
			}
			cp := *c
			cp.State = state
			cp.Version = expectVersion + 1
			return &cp, nil
		},
	}

	auditor := &mockAuditor{}
	svc := newTestModerationService(t, store, auditor, nil)

	result, err := svc.Remove(context.Background(), models.UserActor("mod-1", models.RoleModerator), "c1", "", nil)
	if err != nil {
		t.Fatalf("Remove after conflict: %v", err)
	}
	if result.Comment.State != models.StateRemoved {
		t.Errorf("State = %q", result.Comment.State)
	}
	if got := len(auditor.getRecords()); got != 1 {
		t.Errorf("got %d audit records, want exactly 1", got)
	}

	// GetComment, UpdateState(conflict), GetComment(fresh), UpdateState(ok).
	want := []string{"GetComment", "UpdateState", "GetComment", "UpdateState"}
	if !reflect.DeepEqual(store.callLog(), want) {
		t.Errorf("calls = %v, want %v", store.callLog(), want)
	}
}

func TestModerate_SecondConflictSurfaces(t *testing.T) {
	c := testComment(models.StateHidden)
	store := &mockModerationStore{
		getComment: func(_ context.Context, _ string) (*models.Comment, error) {
			cp := *c
			return &cp, nil
		},
		updateState: func(_ context.Context, _ string, _ int64, _ models.ModerationState) (*models.Comment, error) {
			return nil, models.ErrVersionConflict
		},
	}

	auditor := &mockAuditor{}
	svc := newTestModerationService(t, store, auditor, nil)

	_, err := svc.Restore(context.Background(), models.UserActor("mod-1", models.RoleModerator), "c1", "", nil)
	if !errors.Is(err, models.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
	if len(auditor.getRecords()) != 0 {
		t.Error("conflicted transition produced an audit record")
	}
}

// TestConcurrentRemoveRestore: once a removal commits, a racing restore
// observes the terminal state and reports an invalid transition, so exactly
// one transition's audit record reflects the final outcome.
func TestConcurrentRemoveRestore(t *testing.T) {
	c := testComment(models.StateHidden)

	store := &mockModerationStore{
		getComment: func(_ context.Context, _ string) (*models.Comment, error) {
			cp := *c
			return &cp, nil
		},
		updateState: func(_ context.Context, _ string, expectVersion int64, state models.ModerationState) (*models.Comment, error) {
			if expectVersion != c.Version {
				return nil, models.ErrVersionConflict
			}
			c.State = state
			c.Version++
			cp := *c
			return &cp, nil
		},
	}

	auditor := &mockAuditor{}
	svc := newTestModerationService(t, store, auditor, nil)
	moderator := models.UserActor("mod-1", models.RoleModerator)
	ctx := context.Background()

	if _, err := svc.Remove(ctx, moderator, "c1", "", nil); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	_, err := svc.Restore(ctx, moderator, "c1", "", nil)
	var invalid *models.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("Restore err = %v, want InvalidTransitionError", err)
	}

	records := auditor.getRecords()
	if len(records) != 1 || records[0].Action != models.ActionRemove {
		t.Errorf("audit records = %v, want single remove", records)
	}
	if c.State != models.StateRemoved {
		t.Errorf("final state = %q, want removed", c.State)
	}
}

func TestModerate_AuditWriteFailureSurfaced(t *testing.T) {
	c := testComment(models.StateVisible)
	store := staticStore(c)
	auditor := &mockAuditor{failErr: errors.New("audit db down")}
	svc := newTestModerationService(t, store, auditor, nil)

	result, err := svc.Hide(context.Background(), models.UserActor("mod-1", models.RoleModerator), "c1", "", nil)
	if err != nil {
		t.Fatalf("Hide: %v", err)
	}

	// The primary mutation stands; the audit loss is reported, not fatal.
	if result.Comment.State != models.StateHidden {
		t.Errorf("State = %q, want hidden", result.Comment.State)
	}
	if !result.AuditWriteFailed {
		t.Error("AuditWriteFailed = false, want true")
	}
	if result.Record != nil {
		t.Error("Record set despite failed append")
	}
}

func TestReport_Flow(t *testing.T) {
	t.Run("first report moves visible to reported", func(t *testing.T) {
		c := testComment(models.StateVisible)
		store := &mockModerationStore{
			getComment: func(_ context.Context, _ string) (*models.Comment, error) {
				cp := *c
				return &cp, nil
			},
			addReport: func(_ context.Context, _ string, expectVersion int64, _ string) (*models.Comment, bool, error) {
				cp := *c
				cp.State = models.StateReported
				cp.ReportCount = 1
				cp.Version = expectVersion + 1
				return &cp, true, nil
			},
		}

		auditor := &mockAuditor{}
		svc := newTestModerationService(t, store, auditor, nil)

		result, err := svc.Report(context.Background(), models.UserActor("u2", models.RoleUser), "c1", "off topic", nil)
		if err != nil {
			t.Fatalf("Report: %v", err)
		}
		if !result.ReportAdded {
			t.Error("ReportAdded = false")
		}

		records := auditor.getRecords()
		if len(records) != 1 {
			t.Fatalf("got %d audit records, want 1", len(records))
		}
		rec := records[0]
		if rec.Action != models.ActionReport {
			t.Errorf("Action = %q", rec.Action)
		}
		wantOld := map[string]any{"state": "visible", "report_count": 0}
		wantNew := map[string]any{"state": "reported", "report_count": 1}
		if !reflect.DeepEqual(rec.OldValues, wantOld) || !reflect.DeepEqual(rec.NewValues, wantNew) {
			t.Errorf("values = %v / %v", rec.OldValues, rec.NewValues)
		}
	})

	t.Run("duplicate reporter is a no-op without audit", func(t *testing.T) {
		c := testComment(models.StateReported)
		c.ReportCount = 1
		store := &mockModerationStore{
			getComment: func(_ context.Context, _ string) (*models.Comment, error) {
				cp := *c
				return &cp, nil
			},
			addReport: func(_ context.Context, _ string, _ int64, _ string) (*models.Comment, bool, error) {
				cp := *c
				return &cp, false, nil
			},
		}

		auditor := &mockAuditor{}
		svc := newTestModerationService(t, store, auditor, nil)

		result, err := svc.Report(context.Background(), models.UserActor("u2", models.RoleUser), "c1", "", nil)
		if err != nil {
			t.Fatalf("Report: %v", err)
		}
		if result.ReportAdded {
			t.Error("duplicate report counted as added")
		}
		if result.Comment.ReportCount != 1 {
			t.Errorf("ReportCount = %d, want 1", result.Comment.ReportCount)
		}
		if len(auditor.getRecords()) != 0 {
			t.Error("no-op report produced an audit record")
		}
	})

	t.Run("report on removed is invalid", func(t *testing.T) {
		c := testComment(models.StateRemoved)
		store := &mockModerationStore{
			getComment: func(_ context.Context, _ string) (*models.Comment, error) {
				cp := *c
				return &cp, nil
			},
		}
		svc := newTestModerationService(t, store, &mockAuditor{}, nil)

		_, err := svc.Report(context.Background(), models.UserActor("u2", models.RoleUser), "c1", "", nil)

		var invalid *models.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("err = %v, want InvalidTransitionError", err)
		}
	})
}

func TestModerate_CommentNotFound(t *testing.T) {
	store := &mockModerationStore{
		getComment: func(_ context.Context, _ string) (*models.Comment, error) {
			return nil, models.ErrCommentNotFound
		},
	}
	svc := newTestModerationService(t, store, &mockAuditor{}, nil)

	_, err := svc.Hide(context.Background(), models.UserActor("mod-1", models.RoleModerator), "missing", "", nil)
	if !errors.Is(err, models.ErrCommentNotFound) {
		t.Fatalf("err = %v, want ErrCommentNotFound", err)
	}
}
