package rolemanager

import (
	"fmt"
	"strings"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

// Role is a user role.
type Role string

// Roles offered by the editor.
const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleIntern  Role = "Intern"
	RoleVisitor Role = "Visitor"
	RoleUser    Role = "User"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleIntern, RoleVisitor, RoleUser}

// Permission is a single permission flag.
type Permission string

// Permission flags.
const (
	ViewUsers     Permission = "viewUsers"
	EditUsers     Permission = "editUsers"
	DeleteUsers   Permission = "deleteUsers"
	ViewReports   Permission = "viewReports"
	ExportReports Permission = "exportReports"
)

// Permissions lists every permission flag in display order.
var Permissions = []Permission{
	ViewUsers, EditUsers, DeleteUsers, ViewReports, ExportReports,
}

// EditorState tracks whether the form has unsaved changes.
type EditorState string

// Editor states. A change from any state moves the editor to
// Dirty; saving moves it to Saved or Rejected.
const (
	EditorClean    EditorState = "clean"
	EditorDirty    EditorState = "dirty"
	EditorSaved    EditorState = "saved"
	EditorRejected EditorState = "rejected"
)

// Editor is the user rights detector.
type Editor struct {
	scenario.Base
	role     Role
	prevRole Role
	active   bool
	perms    map[Permission]bool
	state    EditorState
}

// New creates an Editor for an active User with no permissions.
func New(clock scenario.Clock) *Editor {
	e := &Editor{Base: scenario.NewBase(Definition(), clock)}
	e.reset()
	return e
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// Role returns the selected role.
func (e *Editor) Role() Role { return e.role }

// PreviousRole returns the role selected before the current one.
func (e *Editor) PreviousRole() Role { return e.prevRole }

// Active reports whether the account is active.
func (e *Editor) Active() bool { return e.active }

// State returns the editor state.
func (e *Editor) State() EditorState { return e.state }

// Has reports whether permission p is granted.
func (e *Editor) Has(p Permission) bool { return e.perms[p] }

// Toggle flips permission p. Disabling viewUsers while editUsers
// stays on is reported immediately.
func (e *Editor) Toggle(p Permission) scenario.Events {
	r := e.Recorder()
	if _, ok := e.perms[p]; !ok {
		r.Error(fmt.Sprintf("Unknown permission %q.", p))
		return r.Events()
	}

	next := !e.perms[p]
	e.perms[p] = next
	e.state = EditorDirty
	r.Info(fmt.Sprintf("Toggled permission: %s", p))

	if p == ViewUsers && !next && e.perms[EditUsers] {
		r.Success(OrphanPerm,
			`Logic Bug: "Edit Users" remained enabled while "View Users" was disabled.`)
	}
	return r.Events()
}

// SetRole selects a role. Admin and Visitor overwrite the whole
// permission map; other roles leave it untouched.
func (e *Editor) SetRole(role Role) scenario.Events {
	r := e.Recorder()
	if !validRole(role) {
		r.Error(fmt.Sprintf("Unknown role %q.", role))
		return r.Events()
	}

	e.prevRole = e.role
	e.role = role
	e.state = EditorDirty
	r.Info(fmt.Sprintf("Role changed to: %s", role))

	switch role {
	case RoleAdmin:
		for _, p := range Permissions {
			e.perms[p] = true
		}
	case RoleVisitor:
		if e.prevRole == RoleAdmin {
			r.Success(PrivilegeEscalation,
				"Security: Privileges not cleared when downgrading role.")
		}
		for _, p := range Permissions {
			e.perms[p] = p == ViewUsers
		}
	}
	return r.Events()
}

// SetActive sets the account active flag.
func (e *Editor) SetActive(active bool) scenario.Events {
	e.active = active
	e.state = EditorDirty
	r := e.Recorder()
	r.Info(fmt.Sprintf("Account active: %t", active))
	return r.Events()
}

// Save validates and stores the settings. Ghost access and role
// conflicts abort the save; a self lockout is reported but saved.
func (e *Editor) Save() scenario.Events {
	r := e.Recorder()
	r.Info("Saving user settings...")

	if !e.active && e.anyPermission() {
		e.state = EditorRejected
		r.Success(GhostAccess,
			"Security: Inactive user still has active permissions in DB.")
		return r.Events()
	}

	if e.role == RoleIntern && e.perms[DeleteUsers] {
		e.state = EditorRejected
		r.Success(RoleConflict, `Security: Intern has "Delete" permission.`)
		return r.Events()
	}

	if !e.active && e.role == RoleAdmin {
		r.Success(SelfLockout,
			"Logic: You disabled the only Admin account (Self Lockout).")
	}

	e.state = EditorSaved
	r.Info("Settings saved successfully.")
	return r.Events()
}

// Reset restores the initial user.
func (e *Editor) Reset() scenario.Events {
	e.reset()
	r := e.Recorder()
	r.Info("Editor reset.")
	return r.Events()
}

func (e *Editor) reset() {
	e.role = RoleUser
	e.prevRole = RoleUser
	e.active = true
	e.state = EditorClean
	e.perms = make(map[Permission]bool, len(Permissions))
	for _, p := range Permissions {
		e.perms[p] = false
	}
}

func (e *Editor) anyPermission() bool {
	for _, v := range e.perms {
		if v {
			return true
		}
	}
	return false
}

func validRole(role Role) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Handle dispatches "toggle" (input "permission"), "role" (input
// "role"), "active" (input "active"), "save" and "reset".
func (e *Editor) Handle(a scenario.Action) scenario.Events {
	switch a.Name {
	case "toggle":
		p := strings.TrimSpace(a.Get("permission"))
		if p == "" {
			return e.Fail("permission is empty")
		}
		return e.Toggle(Permission(p))
	case "role":
		role := strings.TrimSpace(a.Get("role"))
		if role == "" {
			return e.Fail("role is empty")
		}
		return e.SetRole(Role(role))
	case "active":
		v, err := a.Bool("active")
		if err != nil {
			return e.Fail("%v", err)
		}
		return e.SetActive(v)
	case "save":
		return e.Save()
	case "reset":
		return e.Reset()
	default:
		return e.Unknown(a)
	}
}
