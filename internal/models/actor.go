package models

// ActorType distinguishes human-attributed actions from automated ones.
type ActorType string

const (
	// ActorSystem marks automated/background actions with no human identity.
	ActorSystem ActorType = "system"
	// ActorUser marks actions performed by an authenticated user.
	ActorUser ActorType = "user"
)

// Role is a named bundle of capabilities assigned at session resolution time.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
	// RoleSystem is the policy-table role for automated actors.
	RoleSystem Role = "system"
)

// Actor is the request-scoped identity performing an action. Actors are
// never persisted; the role is resolved from the current session by the
// identity provider and travels with the identity through every core call.
type Actor struct {
	Type ActorType
	ID   string
	Role Role
}

// SystemActor returns the actor attributed to automated background actions.
func SystemActor() Actor {
	return Actor{Type: ActorSystem, Role: RoleSystem}
}

// UserActor returns an actor for an authenticated user with the given role.
func UserActor(userID string, role Role) Actor {
	return Actor{Type: ActorUser, ID: userID, Role: role}
}

// Valid reports whether the actor is well-formed: user actors must carry an
// identifier, system actors must not claim one attributed to a person.
func (a Actor) Valid() bool {
	switch a.Type {
	case ActorUser:
		return a.ID != ""
	case ActorSystem:
		return true
	default:
		return false
	}
}

// RequestContext carries best-effort provenance from the transport layer.
// All fields are optional and never required for an action to be valid.
type RequestContext struct {
	IPAddress string
	UserAgent string
	RequestID string
}
