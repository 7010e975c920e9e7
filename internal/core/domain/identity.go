package domain

// Role is derived from an Identity and never stored on its own.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
)

// AdminUsername is the account every resident chats with.
const AdminUsername = "admin"

// Identity is the account returned by the current-user endpoint.
type Identity struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Avatar    string    `json:"avatar"`
	IsActive  bool      `json:"is_active"`
	Resident  *Resident `json:"resident"`
}

// ResolveRole maps an identity to its role: no linked resident profile means admin.
// A nil identity has no role.
func ResolveRole(id *Identity) Role {
	if id == nil {
		return ""
	}
	if id.Resident == nil {
		return RoleAdmin
	}
	return RoleResident
}

// Role is shorthand for ResolveRole(i).
func (i *Identity) Role() Role {
	return ResolveRole(i)
}

// NeedsOnboarding reports whether the avatar/password setup screen should be
// pushed right after login.
func (i *Identity) NeedsOnboarding() bool {
	return i != nil && i.Avatar == "" && i.Username != AdminUsername
}

// FullName joins first and last name, falling back to the username.
func (i *Identity) FullName() string {
	name := i.FirstName
	if i.LastName != "" {
		if name != "" {
			name += " "
		}
		name += i.LastName
	}
	if name == "" {
		return i.Username
	}
	return name
}
