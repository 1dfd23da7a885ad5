// Package audit constructs immutable audit records from committed actions.
// Building is pure: nothing here persists. Descriptions come from a fixed
// template table keyed by action and entity type, never from actor input,
// so a hostile request body cannot spoof the audit narrative.
package audit

import (
	"fmt"
	"reflect"
	"time"

	"github.com/fundforge/fundforge/internal/models"
)

// Input carries everything needed to build one audit record.
type Input struct {
	Actor      models.Actor
	Action     models.Action
	EntityType string
	EntityID   string
	// EntityOwnerID is the resource owner at the time of the action, kept
	// for ownership-based policy checks and owner-scoped queries.
	EntityOwnerID string
	// Before/After are structural snapshots of the audited fields. For
	// update-class actions the builder reduces them to the keys that
	// actually differ.
	Before   map[string]any
	After    map[string]any
	Metadata map[string]any
	Request  *models.RequestContext
}

// descriptions maps action -> entity type -> deterministic summary template.
// The single %s slot is the entity ID.
var descriptions = map[models.Action]map[string]string{
	models.ActionCreate:     {"comment": "comment %s created"},
	models.ActionUpdate:     {"comment": "comment %s updated"},
	models.ActionDelete:     {"comment": "comment %s deleted"},
	models.ActionReport:     {"comment": "comment %s reported"},
	models.ActionHide:       {"comment": "comment %s hidden by moderator"},
	models.ActionRemove:     {"comment": "comment %s removed by moderator"},
	models.ActionRestore:    {"comment": "comment %s restored to visible"},
	models.ActionDeleteOwn:  {"comment": "comment %s deleted by its author"},
	models.ActionAuthDenied: {},
	models.ActionAuditPurge: {},
}

// fallbacks for actions without an entity-specific template.
var genericDescriptions = map[models.Action]string{
	models.ActionCreate:     "%s %s created",
	models.ActionUpdate:     "%s %s updated",
	models.ActionDelete:     "%s %s deleted",
	models.ActionReport:     "%s %s reported",
	models.ActionHide:       "%s %s hidden",
	models.ActionRemove:     "%s %s removed",
	models.ActionRestore:    "%s %s restored",
	models.ActionDeleteOwn:  "%s %s deleted by owner",
	models.ActionAuthDenied: "authorization denied for %s %s",
	models.ActionAuditPurge: "audit retention purge of %s %s",
}

// Build constructs an AuditRecord from the input. The record's ID is zero
// until the store assigns the append sequence.
//
// Invalid combinations (unknown action, missing entity identity, a creation
// carrying a before-snapshot, a deletion carrying an after-snapshot) are
// programming errors in the calling transition code and panic.
func Build(in Input) models.AuditRecord {
	validate(in)

	old, updated := Diff(in.Before, in.After)

	return models.AuditRecord{
		Action:        in.Action,
		EntityType:    in.EntityType,
		EntityID:      in.EntityID,
		EntityOwnerID: in.EntityOwnerID,
		ActorType:     in.Actor.Type,
		ActorID:       in.Actor.ID,
		ActorRole:     in.Actor.Role,
		Description:   describe(in.Action, in.EntityType, in.EntityID),
		OldValues:     old,
		NewValues:     updated,
		Metadata:      in.Metadata,
		IPAddress:     requestField(in.Request, func(r *models.RequestContext) string { return r.IPAddress }),
		UserAgent:     requestField(in.Request, func(r *models.RequestContext) string { return r.UserAgent }),
		CreatedAt:     time.Now().UTC(),
	}
}

func validate(in Input) {
	if !in.Action.Valid() {
		panic(fmt.Sprintf("audit: unknown action %q", in.Action))
	}
	if in.EntityType == "" || in.EntityID == "" {
		panic(fmt.Sprintf("audit: %s record missing entity identity", in.Action))
	}
	if !in.Actor.Valid() {
		panic(fmt.Sprintf("audit: %s record with malformed actor %+v", in.Action, in.Actor))
	}
	if in.Action == models.ActionCreate && in.Before != nil {
		panic("audit: create record must not carry a before snapshot")
	}
	if (in.Action == models.ActionDelete || in.Action == models.ActionDeleteOwn) && in.After != nil {
		panic(fmt.Sprintf("audit: %s record must not carry an after snapshot", in.Action))
	}
}

// describe renders the deterministic summary for action+entityType.
func describe(action models.Action, entityType, entityID string) string {
	if tmpl, ok := descriptions[action][entityType]; ok {
		return fmt.Sprintf(tmpl, entityID)
	}
	return fmt.Sprintf(genericDescriptions[action], entityType, entityID)
}

// Diff reduces two snapshots to the keys whose values differ. Keys present
// in only one snapshot appear on that side only. Returning nil maps (rather
// than empty ones) keeps no-op diffs out of stored records.
func Diff(before, after map[string]any) (old, updated map[string]any) {
	if before == nil && after == nil {
		return nil, nil
	}

	// Creation or deletion: the single present snapshot passes through.
	if before == nil {
		return nil, copyNonEmpty(after)
	}
	if after == nil {
		return copyNonEmpty(before), nil
	}

	old = map[string]any{}
	updated = map[string]any{}

	for k, bv := range before {
		av, ok := after[k]
		if !ok {
			old[k] = bv
			continue
		}
		if !reflect.DeepEqual(normalize(bv), normalize(av)) {
			old[k] = bv
			updated[k] = av
		}
	}
	for k, av := range after {
		if _, ok := before[k]; !ok {
			updated[k] = av
		}
	}

	if len(old) == 0 {
		old = nil
	}
	if len(updated) == 0 {
		updated = nil
	}
	return old, updated
}

// normalize folds numeric types to float64 so 1 and 1.0 compare equal, the
// way they would after a JSON round trip.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

func copyNonEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func requestField(r *models.RequestContext, get func(*models.RequestContext) string) string {
	if r == nil {
		return ""
	}
	return get(r)
}
