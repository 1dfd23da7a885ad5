package graphql

// Mutation resolvers — split from schema.resolvers.go for maintainability.

import (
	"context"

	"github.com/fundforge/fundforge/internal/models"
)

// CreateComment is the resolver for the createComment field.
func (r *mutationResolver) CreateComment(ctx context.Context, input CreateCommentInput) (*Comment, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	req := models.CreateCommentRequest{
		ID:         derefStr(input.ID),
		CampaignID: input.CampaignID,
		Body:       input.Body,
	}
	if err := req.Validate(); err != nil {
		return nil, gqlErr(ctx, err)
	}
	c, err := r.Comments.CreateComment(ctx, actor, req, RequestContextFrom(ctx))
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	return commentToGQL(c), nil
}

// ReportComment is the resolver for the reportComment field.
func (r *mutationResolver) ReportComment(ctx context.Context, id string, reason *string) (*ModerationResult, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	result, err := r.Moderation.Report(ctx, actor, id, derefStr(reason), RequestContextFrom(ctx))
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	return transitionToGQL(result), nil
}

// HideComment is the resolver for the hideComment field.
func (r *mutationResolver) HideComment(ctx context.Context, id string, reason *string) (*ModerationResult, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	result, err := r.Moderation.Hide(ctx, actor, id, derefStr(reason), RequestContextFrom(ctx))
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	return transitionToGQL(result), nil
}

// RemoveComment is the resolver for the removeComment field.
func (r *mutationResolver) RemoveComment(ctx context.Context, id string, reason *string) (*ModerationResult, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	result, err := r.Moderation.Remove(ctx, actor, id, derefStr(reason), RequestContextFrom(ctx))
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	return transitionToGQL(result), nil
}

// RestoreComment is the resolver for the restoreComment field.
func (r *mutationResolver) RestoreComment(ctx context.Context, id string, reason *string) (*ModerationResult, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	result, err := r.Moderation.Restore(ctx, actor, id, derefStr(reason), RequestContextFrom(ctx))
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	return transitionToGQL(result), nil
}

// DeleteOwnComment is the resolver for the deleteOwnComment field.
func (r *mutationResolver) DeleteOwnComment(ctx context.Context, id string) (*ModerationResult, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	result, err := r.Moderation.DeleteOwn(ctx, actor, id, RequestContextFrom(ctx))
	if err != nil {
		return nil, gqlErr(ctx, err)
	}
	return transitionToGQL(result), nil
}
