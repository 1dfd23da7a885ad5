package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
)

func newTestCommentService(store *mockModerationStore, worker AuditEnqueuer) *CommentService {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewCommentService(store, worker, log)
}

func TestCreateComment(t *testing.T) {
	store := &mockModerationStore{
		createComment: func(_ context.Context, authorID string, req models.CreateCommentRequest) (*models.Comment, error) {
			return &models.Comment{
				ID:         req.ID,
				CampaignID: req.CampaignID,
				AuthorID:   authorID,
				Body:       req.Body,
				State:      models.StateVisible,
				Version:    1,
			}, nil
		},
	}
	worker := &mockEnqueuer{}
	svc := newTestCommentService(store, worker)

	req := models.CreateCommentRequest{ID: "c1", CampaignID: "camp1", Body: "count me in"}
	c, err := svc.CreateComment(context.Background(), models.UserActor("u1", models.RoleUser), req, nil)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if c.AuthorID != "u1" {
		t.Errorf("AuthorID = %q", c.AuthorID)
	}
	if c.State != models.StateVisible {
		t.Errorf("State = %q, want visible", c.State)
	}

	jobs := worker.getJobs()
	if len(jobs) != 1 {
		t.Fatalf("got %d breadcrumb jobs, want 1", len(jobs))
	}
	rec := jobs[0].Record
	if rec.Action != models.ActionCreate || rec.EntityID != "c1" {
		t.Errorf("breadcrumb = %+v", rec)
	}
	if rec.Metadata["campaign_id"] != "camp1" {
		t.Errorf("Metadata = %v", rec.Metadata)
	}
	if rec.OldValues != nil {
		t.Errorf("create breadcrumb carries OldValues: %v", rec.OldValues)
	}
}

func TestCreateComment_RequiresUserActor(t *testing.T) {
	store := &mockModerationStore{}
	svc := newTestCommentService(store, nil)

	req := models.CreateCommentRequest{ID: "c1", CampaignID: "camp1", Body: "hi"}

	for _, actor := range []models.Actor{models.SystemActor(), {Type: models.ActorUser, Role: models.RoleUser}} {
		_, err := svc.CreateComment(context.Background(), actor, req, nil)
		if !errors.Is(err, models.ErrMissingActor) {
			t.Errorf("actor %+v: err = %v, want ErrMissingActor", actor, err)
		}
	}
	if len(store.callLog()) != 0 {
		t.Error("store called for invalid actor")
	}
}

func TestCreateComment_StoreErrorPassthrough(t *testing.T) {
	store := &mockModerationStore{
		createComment: func(_ context.Context, _ string, _ models.CreateCommentRequest) (*models.Comment, error) {
			return nil, models.ErrDuplicateKey
		},
	}
	worker := &mockEnqueuer{}
	svc := newTestCommentService(store, worker)

	req := models.CreateCommentRequest{ID: "c1", CampaignID: "camp1", Body: "hi"}
	_, err := svc.CreateComment(context.Background(), models.UserActor("u1", models.RoleUser), req, nil)
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
	if len(worker.getJobs()) != 0 {
		t.Error("breadcrumb enqueued for failed create")
	}
}
