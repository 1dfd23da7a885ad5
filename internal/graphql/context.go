package graphql

import (
	"context"
	"errors"

	"github.com/fundforge/fundforge/internal/models"
)

type contextKey string

const (
	actorKey      contextKey = "actor"
	requestCtxKey contextKey = "request_context"
)

// ErrNoActor is returned when no authenticated actor is found in the context.
var ErrNoActor = errors.New("no authenticated actor in context")

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the authenticated actor from the context.
func ActorFromContext(ctx context.Context) (models.Actor, error) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	if !ok || !actor.Valid() {
		return models.Actor{}, ErrNoActor
	}
	return actor, nil
}

// WithRequestContext stores audit provenance in the context.
func WithRequestContext(ctx context.Context, rc *models.RequestContext) context.Context {
	return context.WithValue(ctx, requestCtxKey, rc)
}

// RequestContextFrom extracts audit provenance from the context; may be nil.
func RequestContextFrom(ctx context.Context) *models.RequestContext {
	rc, _ := ctx.Value(requestCtxKey).(*models.RequestContext)
	return rc
}
