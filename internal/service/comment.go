package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/audit"
	"github.com/fundforge/fundforge/internal/domain"
	"github.com/fundforge/fundforge/internal/models"
)

// CommentStore is the data-access interface CommentService depends on.
type CommentStore interface {
	CreateComment(ctx context.Context, authorID string, req models.CreateCommentRequest) (*models.Comment, error)
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
}

// Compile-time check: *CommentService must satisfy domain.CommentService.
var _ domain.CommentService = (*CommentService)(nil)

// CommentService handles comment creation and reads outside the moderation
// flow. Creation leaves a breadcrumb on the best-effort audit path.
type CommentService struct {
	store       CommentStore
	auditWorker AuditEnqueuer
	log         *logrus.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(store CommentStore, auditWorker AuditEnqueuer, log *logrus.Logger) *CommentService {
	return &CommentService{store: store, auditWorker: auditWorker, log: log}
}

// CreateComment posts a new comment authored by the acting user.
func (s *CommentService) CreateComment(
	ctx context.Context, actor models.Actor, req models.CreateCommentRequest, rc *models.RequestContext,
) (*models.Comment, error) {
	if actor.Type != models.ActorUser || actor.ID == "" {
		return nil, models.ErrMissingActor
	}

	c, err := s.store.CreateComment(ctx, actor.ID, req)
	if err != nil {
		return nil, err
	}

	if s.auditWorker != nil {
		rec := audit.Build(audit.Input{
			Actor:         actor,
			Action:        models.ActionCreate,
			EntityType:    "comment",
			EntityID:      c.ID,
			EntityOwnerID: c.AuthorID,
			After:         c.Snapshot(),
			Metadata:      map[string]any{"campaign_id": c.CampaignID},
			Request:       rc,
		})
		s.auditWorker.Enqueue(&AuditJob{Record: &rec})
	}

	return c, nil
}

// GetComment returns a single comment by ID (pass-through).
func (s *CommentService) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.store.GetComment(ctx, commentID)
}
