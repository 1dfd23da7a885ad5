package graphql

import (
	"context"
	"errors"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/fundforge/fundforge/internal/models"
)

// GraphQL error code constants.
const (
	codeNotFound          = "NOT_FOUND"
	codeBadRequest        = "BAD_REQUEST"
	codeForbidden         = "FORBIDDEN"
	codeInvalidTransition = "INVALID_TRANSITION"
	codeConflict          = "CONFLICT"
	codeUnauthorized      = "UNAUTHORIZED"
	codeInternalError     = "INTERNAL_ERROR"
)

// gqlErr maps a service/store error to a user-friendly GraphQL error with
// appropriate extension codes.  It never leaks internal details for unknown
// errors.
func gqlErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var denied *models.DeniedError
	var invalid *models.InvalidTransitionError

	switch {
	case errors.As(err, &denied):
		return gqlErrWithCode(ctx, denied.Error(), codeForbidden)

	case errors.As(err, &invalid):
		return gqlErrWithCode(ctx, invalid.Error(), codeInvalidTransition)

	case errors.Is(err, models.ErrVersionConflict),
		errors.Is(err, models.ErrDuplicateKey):
		return gqlErrWithCode(ctx, err.Error(), codeConflict)

	case errors.Is(err, models.ErrCommentNotFound):
		return gqlErrWithCode(ctx, err.Error(), codeNotFound)

	case errors.Is(err, ErrNoActor):
		return gqlErrWithCode(ctx, err.Error(), codeUnauthorized)

	case errors.Is(err, models.ErrMissingCampaign),
		errors.Is(err, models.ErrMissingBody),
		errors.Is(err, models.ErrMissingActor):
		return gqlErrWithCode(ctx, err.Error(), codeBadRequest)

	case strings.Contains(err.Error(), "exceeds maximum length"):
		return gqlErrWithCode(ctx, err.Error(), codeBadRequest)

	default:
		return gqlErrWithCode(ctx, "internal server error", codeInternalError)
	}
}

// gqlErrWithCode creates a GraphQL error with an extension code on the
// current field path.
func gqlErrWithCode(ctx context.Context, message, code string) error {
	return &gqlerror.Error{
		Message: message,
		Path:    graphql.GetPath(ctx),
		Extensions: map[string]interface{}{
			"code": code,
		},
	}
}
