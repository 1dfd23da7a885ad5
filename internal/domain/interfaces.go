// Package domain defines the canonical service interfaces shared across API
// layers (REST, GraphQL, client). Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/fundforge/fundforge/internal/models"
)

// ModerationService defines the comment moderation transitions. Every method
// authorizes the actor against the capability table before mutating, applies
// the state change under optimistic concurrency, and appends an audit record
// once the change commits.
//
// Errors: *models.DeniedError for authorization failures,
// *models.InvalidTransitionError when the action is undefined for the
// comment's current state, models.ErrVersionConflict after a conflicting
// concurrent transition survived one retry, models.ErrCommentNotFound for
// missing comments.
type ModerationService interface {
	Report(ctx context.Context, actor models.Actor, commentID, reason string, req *models.RequestContext) (*models.TransitionResult, error)
	Hide(ctx context.Context, actor models.Actor, commentID, reason string, req *models.RequestContext) (*models.TransitionResult, error)
	Remove(ctx context.Context, actor models.Actor, commentID, reason string, req *models.RequestContext) (*models.TransitionResult, error)
	Restore(ctx context.Context, actor models.Actor, commentID, reason string, req *models.RequestContext) (*models.TransitionResult, error)
	DeleteOwn(ctx context.Context, actor models.Actor, commentID string, req *models.RequestContext) (*models.TransitionResult, error)
}

// CommentService defines comment CRUD outside the moderation flow.
type CommentService interface {
	CreateComment(ctx context.Context, actor models.Actor, req models.CreateCommentRequest, rc *models.RequestContext) (*models.Comment, error)
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
}

// AuditService defines the audit query and retention surfaces. Both are
// capability-gated: queries require view access, purging is admin-only.
type AuditService interface {
	Query(ctx context.Context, actor models.Actor, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error)
	Purge(ctx context.Context, actor models.Actor, retentionDays int, rc *models.RequestContext) (int, error)
}

// Auditor is the minimal interface for appending audit records. The store
// implements it; services and workers depend on nothing more.
type Auditor interface {
	Append(ctx context.Context, rec *models.AuditRecord) error
}
