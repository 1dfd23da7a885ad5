package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingCampaign = errors.New("campaign_id is required")
	ErrMissingBody     = errors.New("body is required")
	ErrMissingActor    = errors.New("actor identity is required")
)

// Sentinel errors for entity lookups.
var ErrCommentNotFound = errors.New("comment not found")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrVersionConflict indicates a conditioned write observed a stale version.
// The moderation service retries once transparently; callers only see this
// after the retry also conflicts.
var ErrVersionConflict = errors.New("version conflict")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// DenyReason classifies why an authorization check failed.
type DenyReason string

const (
	// DenyInsufficientRole: the actor's role does not hold the capability.
	DenyInsufficientRole DenyReason = "insufficient_role"
	// DenyNotOwner: the capability is ownership-scoped and the actor is not
	// the resource owner.
	DenyNotOwner DenyReason = "not_owner"
)

// DeniedError is returned when the decision engine rejects an action.
// It is always surfaced to the caller verbatim, never downgraded.
type DeniedError struct {
	Capability string
	Reason     DenyReason
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
	return fmt.Sprintf("denied %s: %s", e.Capability, e.Reason)
}

// InvalidTransitionError is returned when the requested moderation action is
// not defined for the comment's current state. It is distinct from an
// authorization denial: it reflects entity state, not permission, and is
// reported even to a fully-authorized moderator.
type InvalidTransitionError struct {
	State  ModerationState
	Action Action
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s comment", e.Action, e.State)
}
