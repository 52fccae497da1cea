package models

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // tourist, host, driver
}

// KnownRole reports whether the role is one the app understands.
func KnownRole(role string) bool {
	switch role {
	case RoleTourist, RoleHost, RoleDriver:
		return true
	}
	return false
}
