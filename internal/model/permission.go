package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionTeachersRead allows viewing teachers.
	PermissionTeachersRead Permission = "teachers:read"

	// PermissionTeachersWrite allows adding, editing and removing teachers.
	PermissionTeachersWrite Permission = "teachers:write"

	// PermissionSubjectsRead allows viewing subjects.
	PermissionSubjectsRead Permission = "subjects:read"

	// PermissionSubjectsWrite allows adding, editing and removing subjects.
	PermissionSubjectsWrite Permission = "subjects:write"

	// PermissionSectionsRead allows viewing sections.
	PermissionSectionsRead Permission = "sections:read"

	// PermissionSectionsWrite allows adding, editing and removing sections.
	PermissionSectionsWrite Permission = "sections:write"

	// PermissionScheduleRead allows viewing and exporting the weekly grid.
	PermissionScheduleRead Permission = "schedule:read"

	// PermissionScheduleWrite allows placing, moving and removing classes.
	PermissionScheduleWrite Permission = "schedule:write"

	// PermissionSettingsRead allows viewing application settings.
	PermissionSettingsRead Permission = "settings:read"

	// PermissionSettingsWrite allows editing application settings.
	PermissionSettingsWrite Permission = "settings:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionTeachersRead,
	PermissionTeachersWrite,
	PermissionSubjectsRead,
	PermissionSubjectsWrite,
	PermissionSectionsRead,
	PermissionSectionsWrite,
	PermissionScheduleRead,
	PermissionScheduleWrite,
	PermissionSettingsRead,
	PermissionSettingsWrite,
}

// PermissionStrings converts permissions to the plain strings carried in a token.
func PermissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
