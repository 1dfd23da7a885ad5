package api

import (
	"context"

	"github.com/fundforge/fundforge/internal/models"
)

// ModerationService defines the moderation transitions used by ModerationHandler.
type ModerationService interface {
	Report(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	Hide(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	Remove(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	Restore(ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext) (*models.TransitionResult, error)
	DeleteOwn(ctx context.Context, actor models.Actor, commentID string, rc *models.RequestContext) (*models.TransitionResult, error)
}

// CommentService defines comment operations used by CommentHandler.
type CommentService interface {
	CreateComment(ctx context.Context, actor models.Actor, req models.CreateCommentRequest, rc *models.RequestContext) (*models.Comment, error)
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
}

// AuditService defines audit log operations used by AuditHandler.
type AuditService interface {
	Query(ctx context.Context, actor models.Actor, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error)
	Purge(ctx context.Context, actor models.Actor, retentionDays int, rc *models.RequestContext) (int, error)
}
