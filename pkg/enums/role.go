package enums

// Role is carried in access tokens.
type Role string

const RoleAdmin Role = "admin"

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin
}
