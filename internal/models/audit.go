package models

import "time"

// Action is the closed taxonomy of audited actions. New actions are added
// here and nowhere else; free-form action strings never reach the audit log.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionReport    Action = "report"
	ActionHide      Action = "hide"
	ActionRemove    Action = "remove"
	ActionRestore   Action = "restore"
	ActionDeleteOwn Action = "delete_own"
	// ActionAuthDenied records a rejected authorization attempt. Denial
	// records are optional and written on a best-effort path.
	ActionAuthDenied Action = "auth_denied"
	// ActionAuditPurge records a privileged retention purge of the audit log.
	ActionAuditPurge Action = "audit_purge"
)

// Valid reports whether the action is part of the taxonomy.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionReport, ActionHide,
		ActionRemove, ActionRestore, ActionDeleteOwn, ActionAuthDenied, ActionAuditPurge:
		return true
	default:
		return false
	}
}

// AuditRecord is an immutable fact: actor X performed action Y on entity Z
// at time T. Once appended it is never mutated or deleted by the core; the
// ID is the store-assigned append sequence, monotonic per entity.
//
// OldValues/NewValues hold only the fields that actually changed. Both are
// absent for pure reads; OldValues is absent for creations and NewValues
// for deletions. Values are restricted to JSON-representable types.
type AuditRecord struct {
	ID            int64          `json:"id"`
	Action        Action         `json:"action"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	EntityOwnerID string         `json:"entity_owner_id,omitempty"`
	ActorType     ActorType      `json:"actor_type"`
	ActorID       string         `json:"actor_id,omitempty"`
	ActorRole     Role           `json:"actor_role,omitempty"`
	Description   string         `json:"description"`
	OldValues     map[string]any `json:"old_values,omitempty"`
	NewValues     map[string]any `json:"new_values,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	IPAddress     string         `json:"ip_address,omitempty"`
	UserAgent     string         `json:"user_agent,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit log. Results are
// returned in append order (ascending sequence) so an entity's history can
// be reconstructed by replaying diffs.
type AuditQueryOpts struct {
	EntityType    string
	EntityID      string
	EntityOwnerID string
	Action        Action
	ActorID       string
	Since         *time.Time
	Limit         int
	Offset        int
}
