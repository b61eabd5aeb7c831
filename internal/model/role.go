package model

// RoleName identifies an admin role.
type RoleName string

const (
	// RoleAdministrator can read and change everything.
	RoleAdministrator RoleName = "administrator"
	// RoleScheduler manages the timetable and the entity lists it references.
	RoleScheduler RoleName = "scheduler"
	// RoleViewer can only look.
	RoleViewer RoleName = "viewer"
)

var rolePermissions = map[RoleName][]Permission{
	RoleAdministrator: AllPermissions,
	RoleScheduler: {
		PermissionTeachersRead, PermissionTeachersWrite,
		PermissionSubjectsRead, PermissionSubjectsWrite,
		PermissionSectionsRead, PermissionSectionsWrite,
		PermissionScheduleRead, PermissionScheduleWrite,
		PermissionSettingsRead,
	},
	RoleViewer: {
		PermissionTeachersRead,
		PermissionSubjectsRead,
		PermissionSectionsRead,
		PermissionScheduleRead,
	},
}

// Valid reports whether r is a known role.
func (r RoleName) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the permissions granted to the role; unknown roles get none.
func (r RoleName) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
