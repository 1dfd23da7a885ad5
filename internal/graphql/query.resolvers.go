package graphql

// Query resolvers — split from schema.resolvers.go for maintainability.

import (
	"context"
	"errors"
	"time"

	"github.com/fundforge/fundforge/internal/models"
)

// Comment is the resolver for the comment field.
func (r *queryResolver) Comment(ctx context.Context, id string) (*Comment, error) {
	c, err := r.Comments.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCommentNotFound) {
			return nil, nil
		}
		return nil, gqlErr(ctx, err)
	}
	return commentToGQL(c), nil
}

// AuditLog is the resolver for the auditLog field.
func (r *queryResolver) AuditLog(ctx context.Context, filter *AuditFilter) (*AuditConnection, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}

	opts := models.AuditQueryOpts{Limit: 50}
	if filter != nil {
		opts.EntityType = derefStr(filter.EntityType)
		opts.EntityID = derefStr(filter.EntityID)
		opts.EntityOwnerID = derefStr(filter.EntityOwnerID)
		opts.Action = models.Action(derefStr(filter.Action))
		opts.ActorID = derefStr(filter.ActorID)
		opts.Limit = derefInt(filter.Limit, 50)
		opts.Offset = derefInt(filter.Offset, 0)

		if s := derefStr(filter.Since); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, gqlErrWithCode(ctx, "invalid since format, use RFC3339", codeBadRequest)
			}
			opts.Since = &t
		}
	}

	if opts.Action != "" && !opts.Action.Valid() {
		return nil, gqlErrWithCode(ctx, "unknown action filter", codeBadRequest)
	}

	records, hasMore, err := r.Audit.Query(ctx, actor, opts)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}

	return &AuditConnection{
		Records: auditsToGQL(records),
		HasMore: hasMore,
	}, nil
}
