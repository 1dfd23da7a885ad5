package policy

import (
	"fmt"

	"github.com/fundforge/fundforge/internal/models"
)

// Decision is the outcome of an authorization check. The zero value denies.
type Decision struct {
	Allowed bool
	Reason  models.DenyReason
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny returns a negative decision with the given reason.
func Deny(reason models.DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err converts the decision into a *models.DeniedError for the given
// capability, or nil when allowed.
func (d Decision) Err(capability Capability) error {
	if d.Allowed {
		return nil
	}
	return &models.DeniedError{Capability: string(capability), Reason: d.Reason}
}

// Engine evaluates whether an actor may perform a capability-gated action.
// It is pure and deterministic: the same policy, actor and owner always
// produce the same decision. Safe for concurrent use; the policy table is
// read-only after construction.
type Engine struct {
	policy RolePolicy
	// grants is the flattened lookup built once at construction.
	grants map[models.Role]map[Capability]bool
}

// NewEngine builds an Engine from the given policy table. It fails when the
// table is misconfigured: a capability no role holds would make some
// transition unreachable, which is a deployment defect, not a runtime
// condition.
func NewEngine(policy RolePolicy) (*Engine, error) {
	grants := make(map[models.Role]map[Capability]bool, len(policy))
	held := make(map[Capability]bool)

	for role, caps := range policy {
		set := make(map[Capability]bool, len(caps))
		for _, c := range caps {
			set[c] = true
			held[c] = true
		}
		grants[role] = set
	}

	for _, c := range All() {
		if !held[c] {
			return nil, fmt.Errorf("policy configuration: capability %q is not granted to any role", c)
		}
	}

	return &Engine{policy: policy, grants: grants}, nil
}

// CapabilitiesOf returns the capability set held by the role. Unknown roles
// yield the empty set rather than an error: deny-by-default.
func (e *Engine) CapabilitiesOf(role models.Role) []Capability {
	caps := e.policy[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// Authorize decides whether the actor may exercise the capability,
// optionally against a resource owned by resourceOwnerID.
//
// Ownership-scoped capabilities additionally require the acting user to be
// the resource owner, even when the role nominally holds the capability.
// System actors bypass the ownership comparison but must still hold the
// capability through the policy table.
func (e *Engine) Authorize(actor models.Actor, capability Capability, resourceOwnerID string) Decision {
	if !e.grants[actor.Role][capability] {
		return Deny(models.DenyInsufficientRole)
	}

	if capability.OwnershipScoped() && actor.Type != models.ActorSystem {
		if actor.ID == "" || actor.ID != resourceOwnerID {
			return Deny(models.DenyNotOwner)
		}
	}

	return Allow
}
