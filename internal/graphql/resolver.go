package graphql

import "github.com/fundforge/fundforge/internal/domain"

// Resolver is the root resolver for the GraphQL API.
// All interfaces come from the domain package — no local redeclarations.
type Resolver struct {
	Comments   domain.CommentService
	Moderation domain.ModerationService
	Audit      domain.AuditService
}

// Query returns the query resolver.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// Mutation returns the mutation resolver.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

type queryResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
