package domain

// Permission is a user's access level on an event.
type Permission string

// Permissions. PermissionSelf marks the signed-in user and cannot be set.
// PermissionNone removes the user from the event.
const (
	PermissionNone   Permission = ""
	PermissionView   Permission = "view"
	PermissionUpdate Permission = "update"
	PermissionAdmin  Permission = "admin"
	PermissionSelf   Permission = "self"
)

// DefaultPermission is granted to newly added users.
const DefaultPermission = PermissionView

// SettablePermissions lists the permissions that can be assigned.
var SettablePermissions = []Permission{PermissionView, PermissionUpdate, PermissionAdmin}

// IsSettable reports whether the permission can be assigned to a user.
func (p Permission) IsSettable() bool {
	switch p {
	case PermissionView, PermissionUpdate, PermissionAdmin:
		return true
	default:
		return false
	}
}

// EventUser is a user assigned to an event.
type EventUser struct {
	ID         string
	Name       string
	Email      string
	Permission Permission
}

// IsSelf reports whether the user is the signed-in user.
func (u EventUser) IsSelf() bool {
	return u.Permission == PermissionSelf
}

// UserSummary is a user found by search.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

// User search limits.
const (
	MinUserQueryLength = 2
	DefaultUserResults = 5
)
