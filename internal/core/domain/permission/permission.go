package permission

// Permission is the access level attached to an identity.
type Permission string

const (
	Admin Permission = "ADMIN"
	User  Permission = "USER"
)

// String returns the string representation of the permission
func (p Permission) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known permissions.
func (p Permission) IsValid() bool {
	switch p {
	case Admin, User:
		return true
	default:
		return false
	}
}

// GetAllPermissions returns all permissions known to the system
func GetAllPermissions() []Permission {
	return []Permission{Admin, User}
}
