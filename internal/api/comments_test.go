package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/fundforge/fundforge/internal/api"
	"github.com/fundforge/fundforge/internal/models"
)

func TestCommentHandler_Create(t *testing.T) {
	t.Parallel()

	svc := &mockCommentService{
		createFn: func(_ context.Context, actor models.Actor, req models.CreateCommentRequest, _ *models.RequestContext) (*models.Comment, error) {
			return &models.Comment{
				ID:         req.ID,
				CampaignID: req.CampaignID,
				AuthorID:   actor.ID,
				Body:       req.Body,
				State:      models.StateVisible,
				Version:    1,
				CreatedAt:  time.Now().UTC(),
			}, nil
		},
	}

	r := newTestRouter(models.UserActor("u1", models.RoleUser))
	h := api.NewCommentHandler(svc, testLogger())
	r.POST("/comments", h.Create)

	w := doRequest(r, http.MethodPost, "/comments", `{"campaign_id":"camp1","body":"count me in"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	data := body["data"].(map[string]any)
	if data["author_id"] != "u1" {
		t.Errorf("author_id = %v", data["author_id"])
	}
	if data["state"] != "visible" {
		t.Errorf("state = %v", data["state"])
	}
	if data["id"] == "" {
		t.Error("id not populated")
	}
}

func TestCommentHandler_CreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing campaign", `{"body":"hi"}`},
		{"missing body", `{"campaign_id":"camp1"}`},
		{"malformed JSON", `{`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockCommentService{}
			r := newTestRouter(models.UserActor("u1", models.RoleUser))
			h := api.NewCommentHandler(svc, testLogger())
			r.POST("/comments", h.Create)

			w := doRequest(r, http.MethodPost, "/comments", tc.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestCommentHandler_Get(t *testing.T) {
	t.Parallel()

	svc := &mockCommentService{
		getFn: func(_ context.Context, commentID string) (*models.Comment, error) {
			if commentID != "c1" {
				return nil, models.ErrCommentNotFound
			}
			return &models.Comment{ID: "c1", State: models.StateVisible}, nil
		},
	}

	r := newTestRouter(models.UserActor("u1", models.RoleUser))
	h := api.NewCommentHandler(svc, testLogger())
	r.GET("/comments/:id", h.Get)

	t.Run("found", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/comments/c1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/comments/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
