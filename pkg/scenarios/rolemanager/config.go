// Package rolemanager implements the user rights editor scenario.
// Permissions have implicit dependencies the editor fails to
// enforce.
package rolemanager

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "role-manager"

// Edge case identifiers.
const (
	OrphanPerm          = "orphan-perm"
	RoleConflict        = "role-conflict"
	GhostAccess         = "ghost-access"
	PrivilegeEscalation = "privilege-escalation"
	SelfLockout         = "self-lockout"
)

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:    ID,
		Title: "Admin User Rights",
		Description: `Manage a system user. Permissions have dependencies ` +
			`(e.g., Cannot "Edit" if you cannot "View"). Find the logic gaps.`,
		Difficulty: scenario.DifficultyHard,
		Type:       scenario.TypeValidation,
		Rules: []scenario.Rule{
			{ID: OrphanPerm, Title: "Orphaned Permission", Explanation: `Disabling "View Users" should auto-disable "Edit Users".`},
			{ID: RoleConflict, Title: "Role Conflict", Explanation: `Interns should never have "Delete" rights, even if manually checked.`},
			{ID: GhostAccess, Title: "Ghost Access (Inactive User)", Explanation: `If "Account Active" is off, NO permissions should work.`},
			{ID: PrivilegeEscalation, Title: "Privilege Escalation", Explanation: "Switching from Admin -> Visitor should clear Admin rights."},
			{ID: SelfLockout, Title: "Self Lockout", Explanation: `You cannot remove "Admin" role from yourself (the last admin).`},
		},
	}
}
