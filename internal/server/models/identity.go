package models

// Identity is the authenticated view of a user: the account plus the names
// of the roles it holds. It is built per request and never persisted.
type Identity struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// NewIdentity projects u and its resolved role names.
func NewIdentity(u *User, roles []string) *Identity {
	if roles == nil {
		roles = []string{}
	}
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email, Roles: roles}
}
