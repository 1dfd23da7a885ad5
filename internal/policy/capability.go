// Package policy implements the role/capability model and the authorization
// decision engine. The policy table is immutable after process start and is
// consulted through a single decision function; no other code path decides
// whether an actor may perform a state-changing action.
package policy

import "github.com/fundforge/fundforge/internal/models"

// Capability is a named permission gating one class of action.
type Capability string

const (
	// ReportComment lets any authenticated user flag a comment.
	ReportComment Capability = "report_comment"
	// ModerateComment gates hide, remove and restore.
	ModerateComment Capability = "moderate_comment"
	// DeleteOwnComment is ownership-scoped: it only applies when the acting
	// user is the comment's author.
	DeleteOwnComment Capability = "delete_own_comment"
	// ViewAuditLog gates the audit query surface.
	ViewAuditLog Capability = "view_audit_log"
	// PurgeAuditLog gates the privileged retention purge path.
	PurgeAuditLog Capability = "purge_audit_log"
)

// ownershipScoped marks capabilities that additionally require the acting
// identity to match the resource owner. The flag is declarative: transition
// code never hardcodes ownership checks.
var ownershipScoped = map[Capability]bool{
	DeleteOwnComment: true,
}

// OwnershipScoped reports whether the capability requires actor == owner.
func (c Capability) OwnershipScoped() bool {
	return ownershipScoped[c]
}

// All returns every capability the system gates. Used by startup validation.
func All() []Capability {
	return []Capability{ReportComment, ModerateComment, DeleteOwnComment, ViewAuditLog, PurgeAuditLog}
}

// RolePolicy maps each role to the set of capabilities it holds. A role with
// no entry holds the empty set: deny-by-default.
type RolePolicy map[models.Role][]Capability

// Default returns the production policy table. SYSTEM is a role like any
// other here; its actors only bypass ownership comparison, never the
// capability check itself.
func Default() RolePolicy {
	return RolePolicy{
		models.RoleUser: {
			ReportComment,
			DeleteOwnComment,
		},
		models.RoleModerator: {
			ReportComment,
			ModerateComment,
			DeleteOwnComment,
			ViewAuditLog,
		},
		models.RoleAdmin: {
			ReportComment,
			ModerateComment,
			DeleteOwnComment,
			ViewAuditLog,
			PurgeAuditLog,
		},
		models.RoleSystem: {
			ReportComment,
			ModerateComment,
			DeleteOwnComment,
			ViewAuditLog,
		},
	}
}
