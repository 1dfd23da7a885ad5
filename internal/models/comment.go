package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ModerationState is the lifecycle state of a comment.
type ModerationState string

const (
	StateVisible  ModerationState = "visible"
	StateReported ModerationState = "reported"
	StateHidden   ModerationState = "hidden"
	// StateRemoved is terminal: no moderation action moves a comment out of
	// it. Restoring removed content requires a separate administrative path.
	StateRemoved ModerationState = "removed"
)

// Terminal reports whether no further moderation transitions are permitted.
func (s ModerationState) Terminal() bool {
	return s == StateRemoved
}

// Comment is a user-authored comment on a campaign, the entity the
// moderation state machine operates on. Version is the optimistic
// concurrency marker: every state change is conditioned on the version
// observed at authorization time.
type Comment struct {
	ID          string          `json:"id"`
	CampaignID  string          `json:"campaign_id"`
	AuthorID    string          `json:"author_id"`
	Body        string          `json:"body"`
	State       ModerationState `json:"state"`
	ReportCount int             `json:"report_count"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCommentRequest is the payload for posting a new comment.
type CreateCommentRequest struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	Body       string `json:"body"`
}

// Validate checks required fields and limits on CreateCommentRequest.
// If ID is empty, a UUID is auto-generated.
func (r *CreateCommentRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if len(r.ID) > 255 {
		return ErrFieldTooLong("id", 255)
	}

	if r.CampaignID == "" {
		return ErrMissingCampaign
	}

	if len(r.CampaignID) > 255 {
		return ErrFieldTooLong("campaign_id", 255)
	}

	if r.Body == "" {
		return ErrMissingBody
	}

	if len(r.Body) > 10000 {
		return ErrFieldTooLong("body", 10000)
	}

	return nil
}

// TransitionResult is the outcome of a committed moderation transition.
// AuditWriteFailed is set when the primary state change committed but the
// audit append did not; the transition itself still stands.
type TransitionResult struct {
	Comment          *Comment     `json:"comment"`
	Record           *AuditRecord `json:"audit_record,omitempty"`
	AuditWriteFailed bool         `json:"audit_write_failed,omitempty"`
	// ReportAdded is set on REPORT transitions: false means the reporter
	// had already reported this comment and the call was a no-op.
	ReportAdded bool `json:"report_added,omitempty"`
}

// Snapshot returns the audited view of the comment's moderated fields.
func (c *Comment) Snapshot() map[string]any {
	return map[string]any{
		"state":        string(c.State),
		"report_count": c.ReportCount,
	}
}

// String implements fmt.Stringer for log output.
func (c *Comment) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("comment %s", c.ID)
	}
	return string(data)
}
