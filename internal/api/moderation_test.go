package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fundforge/fundforge/internal/api"
	"github.com/fundforge/fundforge/internal/models"
)

func moderatorActor() models.Actor {
	return models.UserActor("mod-1", models.RoleModerator)
}

func hiddenComment() *models.Comment {
	return &models.Comment{
		ID:         "c1",
		CampaignID: "camp1",
		AuthorID:   "author-7",
		Body:       "hello",
		State:      models.StateHidden,
		Version:    4,
	}
}

func TestModerationHandler_Hide(t *testing.T) {
	t.Parallel()

	var gotReason string
	svc := &mockModerationService{
		hideFn: func(_ context.Context, actor models.Actor, commentID, reason string, _ *models.RequestContext) (*models.TransitionResult, error) {
			if actor.ID != "mod-1" {
				t.Errorf("actor = %+v", actor)
			}
			if commentID != "c1" {
				t.Errorf("commentID = %q", commentID)
			}
			gotReason = reason
			return &models.TransitionResult{
				Comment: hiddenComment(),
				Record:  &models.AuditRecord{ID: 7, Action: models.ActionHide},
			}, nil
		},
	}

	r := newTestRouter(moderatorActor())
	h := api.NewModerationHandler(svc, testLogger())
	r.POST("/comments/:id/hide", h.Hide)

	w := doRequest(r, http.MethodPost, "/comments/c1/hide", `{"reason":"spam"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotReason != "spam" {
		t.Errorf("reason = %q", gotReason)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["audit_record_id"] != float64(7) {
		t.Errorf("audit_record_id = %v", body["audit_record_id"])
	}
	data := body["data"].(map[string]any)
	if data["state"] != "hidden" {
		t.Errorf("state = %v", data["state"])
	}
}

func TestModerationHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "denied maps to 403",
			err:      &models.DeniedError{Capability: "moderate_comment", Reason: models.DenyInsufficientRole},
			wantCode: http.StatusForbidden,
			wantErr:  "forbidden",
		},
		{
			name:     "invalid transition maps to 409",
			err:      &models.InvalidTransitionError{State: models.StateRemoved, Action: models.ActionRestore},
			wantCode: http.StatusConflict,
			wantErr:  "invalid_transition",
		},
		{
			name:     "version conflict maps to 409",
			err:      models.ErrVersionConflict,
			wantCode: http.StatusConflict,
			wantErr:  "conflict",
		},
		{
			name:     "not found maps to 404",
			err:      models.ErrCommentNotFound,
			wantCode: http.StatusNotFound,
			wantErr:  "not_found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockModerationService{
				restoreFn: func(_ context.Context, _ models.Actor, _, _ string, _ *models.RequestContext) (*models.TransitionResult, error) {
					return nil, tc.err
				},
			}

			r := newTestRouter(moderatorActor())
			h := api.NewModerationHandler(svc, testLogger())
			r.POST("/comments/:id/restore", h.Restore)

			w := doRequest(r, http.MethodPost, "/comments/c1/restore", "")

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body["code"] != tc.wantErr {
				t.Errorf("code = %q, want %q", body["code"], tc.wantErr)
			}
		})
	}
}

func TestModerationHandler_AuditWriteFailedSurfaced(t *testing.T) {
	t.Parallel()

	svc := &mockModerationService{
		removeFn: func(_ context.Context, _ models.Actor, _, _ string, _ *models.RequestContext) (*models.TransitionResult, error) {
			c := hiddenComment()
			c.State = models.StateRemoved
			return &models.TransitionResult{Comment: c, AuditWriteFailed: true}, nil
		},
	}

	r := newTestRouter(moderatorActor())
	h := api.NewModerationHandler(svc, testLogger())
	r.POST("/comments/:id/remove", h.Remove)

	w := doRequest(r, http.MethodPost, "/comments/c1/remove", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["audit_write_failed"] != true {
		t.Errorf("audit_write_failed = %v, want true", body["audit_write_failed"])
	}
}

func TestModerationHandler_Report(t *testing.T) {
	t.Parallel()

	svc := &mockModerationService{
		reportFn: func(_ context.Context, _ models.Actor, _, _ string, _ *models.RequestContext) (*models.TransitionResult, error) {
			c := hiddenComment()
			c.State = models.StateReported
			c.ReportCount = 1
			return &models.TransitionResult{Comment: c, ReportAdded: true}, nil
		},
	}

	r := newTestRouter(models.UserActor("u2", models.RoleUser))
	h := api.NewModerationHandler(svc, testLogger())
	r.POST("/comments/:id/report", h.Report)

	w := doRequest(r, http.MethodPost, "/comments/c1/report", `{"reason":"off topic"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["report_added"] != true {
		t.Errorf("report_added = %v, want true", body["report_added"])
	}
}

func TestModerationHandler_ReasonTooLong(t *testing.T) {
	t.Parallel()

	svc := &mockModerationService{}
	r := newTestRouter(moderatorActor())
	h := api.NewModerationHandler(svc, testLogger())
	r.POST("/comments/:id/hide", h.Hide)

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'x'
	}
	body, _ := json.Marshal(map[string]string{"reason": string(long)})

	w := doRequest(r, http.MethodPost, "/comments/c1/hide", string(body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestModerationHandler_MissingActor(t *testing.T) {
	t.Parallel()

	svc := &mockModerationService{}
	r := newTestRouter(models.Actor{})
	h := api.NewModerationHandler(svc, testLogger())
	r.DELETE("/comments/:id", h.DeleteOwn)

	w := doRequest(r, http.MethodDelete, "/comments/c1", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
