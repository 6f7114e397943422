package domain

import "strings"

type Role string

const (
	RoleOwner        Role = "owner"
	RoleVeterinarian Role = "veterinarian"
	RoleEmployee     Role = "employee"
	RoleAdmin        Role = "admin"
	RoleUnknown      Role = ""
)

// ParseRole maps the backend's role string onto a Role; unrecognised values yield RoleUnknown.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleOwner, RoleVeterinarian, RoleEmployee, RoleAdmin:
		return r
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
