package api_test

import (
	"context"

	"github.com/fundforge/fundforge/internal/models"
)

// mockModerationService implements api.ModerationService for testing.
type mockModerationService struct {
	reportFn    func(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	hideFn      func(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	removeFn    func(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	restoreFn   func(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	deleteOwnFn func(ctx context.Context, actor models.Actor, commentID string, rc *models.RequestContext) (*models.TransitionResult, error)
}

func (m *mockModerationService) Report(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error) {
	return m.reportFn(ctx, actor, commentID, reason, rc)
}

func (m *mockModerationService) Hide(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error) {
	return m.hideFn(ctx, actor, commentID, reason, rc)
}

func (m *mockModerationService) Remove(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error) {
	return m.removeFn(ctx, actor, commentID, reason, rc)
}

func (m *mockModerationService) Restore(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error) {
	return m.restoreFn(ctx, actor, commentID, reason, rc)
}

func (m *mockModerationService) DeleteOwn(ctx context.Context, actor models.Actor, commentID string, rc *models.RequestContext) (*models.TransitionResult, error) {
	return m.deleteOwnFn(ctx, actor, commentID, rc)
}

// mockCommentService implements api.CommentService for testing.
type mockCommentService struct {
	createFn func(ctx context.Context, actor models.Actor, req models.CreateCommentRequest, rc *models.RequestContext) (*models.Comment, error)
	getFn    func(ctx context.Context, commentID string) (*models.Comment, error)
}

func (m *mockCommentService) CreateComment(ctx context.Context, actor models.Actor, req models.CreateCommentRequest, rc *models.RequestContext) (*models.Comment, error) {
	return m.createFn(ctx, actor, req, rc)
}

func (m *mockCommentService) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	return m.getFn(ctx, commentID)
}

// mockAuditService implements api.AuditService for testing.
type mockAuditService struct {
	queryFn func(ctx context.Context, actor models.Actor, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error)
	purgeFn func(ctx context.Context, actor models.Actor, retentionDays int, rc *models.RequestContext) (int, error)
}

func (m *mockAuditService) Query(ctx context.Context, actor models.Actor, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error) {
	return m.queryFn(ctx, actor, opts)
}

func (m *mockAuditService) Purge(ctx context.Context, actor models.Actor, retentionDays int, rc *models.RequestContext) (int, error) {
	return m.purgeFn(ctx, actor, retentionDays, rc)
}
