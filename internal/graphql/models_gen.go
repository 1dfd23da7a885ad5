// Code generated by github.com/99designs/gqlgen, DO NOT EDIT.

package graphql

type AuditConnection struct {
	Records []*AuditRecord `json:"records"`
	HasMore bool           `json:"hasMore"`
}

type AuditFilter struct {
	EntityType    *string `json:"entityType,omitempty"`
	EntityID      *string `json:"entityId,omitempty"`
	EntityOwnerID *string `json:"entityOwnerId,omitempty"`
	Action        *string `json:"action,omitempty"`
	ActorID       *string `json:"actorId,omitempty"`
	Since         *string `json:"since,omitempty"`
	Limit         *int    `json:"limit,omitempty"`
	Offset        *int    `json:"offset,omitempty"`
}

type AuditRecord struct {
	ID            string         `json:"id"`
	Action        string         `json:"action"`
	EntityType    string         `json:"entityType"`
	EntityID      string         `json:"entityId"`
	EntityOwnerID *string        `json:"entityOwnerId,omitempty"`
	ActorType     string         `json:"actorType"`
	ActorID       *string        `json:"actorId,omitempty"`
	ActorRole     *string        `json:"actorRole,omitempty"`
	Description   string         `json:"description"`
	OldValues     map[string]any `json:"oldValues,omitempty"`
	NewValues     map[string]any `json:"newValues,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	IPAddress     *string        `json:"ipAddress,omitempty"`
	UserAgent     *string        `json:"userAgent,omitempty"`
	CreatedAt     string         `json:"createdAt"`
}

type Comment struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaignId"`
	AuthorID    string `json:"authorId"`
	Body        string `json:"body"`
	State       string `json:"state"`
	ReportCount int    `json:"reportCount"`
	Version     int    `json:"version"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type CreateCommentInput struct {
	ID         *string `json:"id,omitempty"`
	CampaignID string  `json:"campaignId"`
	Body       string  `json:"body"`
}

// Outcome of a moderation transition. auditWriteFailed reports a committed
// state change whose audit record could not be written.
type ModerationResult struct {
	Comment          *Comment `json:"comment"`
	AuditRecordID    *string  `json:"auditRecordId,omitempty"`
	AuditWriteFailed bool     `json:"auditWriteFailed"`
	ReportAdded      bool     `json:"reportAdded"`
}

type Mutation struct {
}

type Query struct {
}
