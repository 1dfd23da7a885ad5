package client

import (
	"time"
)

// Comment represents a campaign comment and its moderation state.
type Comment struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	AuthorID    string    `json:"author_id"`
	Body        string    `json:"body"`
	State       string    `json:"state"`
	ReportCount int       `json:"report_count"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommentRequest is the payload for posting a comment.
type CreateCommentRequest struct {
	ID         string `json:"id,omitempty"`
	CampaignID string `json:"campaign_id"`
	Body       string `json:"body"`
}

// ModerationResult is the outcome of a moderation transition. AuditRecordID
// references the trail entry written for the change; AuditWriteFailed marks
// a committed change whose record was lost.
type ModerationResult struct {
	Comment          *Comment `json:"data"`
	AuditRecordID    int64    `json:"audit_record_id,omitempty"`
	AuditWriteFailed bool     `json:"audit_write_failed,omitempty"`
	ReportAdded      bool     `json:"report_added,omitempty"`
}

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID            int64          `json:"id"`
	Action        string         `json:"action"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	EntityOwnerID string         `json:"entity_owner_id,omitempty"`
	ActorType     string         `json:"actor_type"`
	ActorID       string         `json:"actor_id,omitempty"`
	ActorRole     string         `json:"actor_role,omitempty"`
	Description   string         `json:"description"`
	OldValues     map[string]any `json:"old_values,omitempty"`
	NewValues     map[string]any `json:"new_values,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	IPAddress     string         `json:"ip_address,omitempty"`
	UserAgent     string         `json:"user_agent,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadinessResponse is returned by the readiness endpoint.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// AuditQueryOptions holds parameters for querying the audit log.
type AuditQueryOptions struct {
	EntityType    string
	EntityID      string
	EntityOwnerID string
	Action        string
	ActorID       string
	Since         *time.Time
	Limit         int
	Offset        int
}
