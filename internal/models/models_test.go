package models_test

import (
	"strings"
	"testing"

	"github.com/fundforge/fundforge/internal/models"
)

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}

	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}

func TestCreateCommentRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateCommentRequest
		wantErr string
	}{
		{name: "valid with id", req: models.CreateCommentRequest{ID: "c1", CampaignID: "camp-1", Body: "hello"}},
		{name: "valid without id", req: models.CreateCommentRequest{CampaignID: "camp-1", Body: "hello"}},
		{name: "missing campaign", req: models.CreateCommentRequest{Body: "hello"}, wantErr: "campaign_id is required"},
		{name: "missing body", req: models.CreateCommentRequest{CampaignID: "camp-1"}, wantErr: "body is required"},
		{name: "id too long", req: models.CreateCommentRequest{ID: strings.Repeat("x", 256), CampaignID: "camp-1", Body: "hi"}, wantErr: "id exceeds"},
		{name: "campaign too long", req: models.CreateCommentRequest{CampaignID: strings.Repeat("x", 256), Body: "hi"}, wantErr: "campaign_id exceeds"},
		{name: "body too long", req: models.CreateCommentRequest{CampaignID: "camp-1", Body: strings.Repeat("x", 10001)}, wantErr: "body exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantErr == "" {
				assertNoError(t, err)
				if tt.req.ID == "" {
					t.Error("expected ID to be auto-generated")
				}
				return
			}

			assertErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestActor_Valid(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
		want  bool
	}{
		{name: "user with id", actor: models.UserActor("u1", models.RoleUser), want: true},
		{name: "user without id", actor: models.Actor{Type: models.ActorUser, Role: models.RoleUser}, want: false},
		{name: "system", actor: models.SystemActor(), want: true},
		{name: "unknown type", actor: models.Actor{Type: "robot", ID: "r1"}, want: false},
		{name: "zero value", actor: models.Actor{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSystemActor_Role(t *testing.T) {
	a := models.SystemActor()

	if a.Role != models.RoleSystem {
		t.Errorf("expected system role, got %q", a.Role)
	}

	if a.ID != "" {
		t.Errorf("system actor must not carry a user ID, got %q", a.ID)
	}
}

func TestModerationState_Terminal(t *testing.T) {
	for _, s := range []models.ModerationState{models.StateVisible, models.StateReported, models.StateHidden} {
		if s.Terminal() {
			t.Errorf("state %q should not be terminal", s)
		}
	}

	if !models.StateRemoved.Terminal() {
		t.Error("removed state must be terminal")
	}
}

func TestAction_Valid(t *testing.T) {
	valid := []models.Action{
		models.ActionCreate, models.ActionUpdate, models.ActionDelete,
		models.ActionReport, models.ActionHide, models.ActionRemove,
		models.ActionRestore, models.ActionDeleteOwn,
		models.ActionAuthDenied, models.ActionAuditPurge,
	}

	for _, a := range valid {
		if !a.Valid() {
			t.Errorf("action %q should be valid", a)
		}
	}

	if models.Action("launch").Valid() {
		t.Error("free-form action strings must be rejected")
	}
}

func TestComment_Snapshot(t *testing.T) {
	c := &models.Comment{
		ID:          "c1",
		State:       models.StateReported,
		ReportCount: 2,
	}

	snap := c.Snapshot()

	if snap["state"] != "reported" {
		t.Errorf("expected state %q, got %v", "reported", snap["state"])
	}

	if snap["report_count"] != 2 {
		t.Errorf("expected report_count 2, got %v", snap["report_count"])
	}

	if len(snap) != 2 {
		t.Errorf("snapshot must carry only moderated fields, got %v", snap)
	}
}
