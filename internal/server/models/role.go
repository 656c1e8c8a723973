package models

// Role is a named permission group, e.g. "Admin". Roles are reference data
// seeded by migrations.
type Role struct {
	ID   int64
	Name string
}


// UserRole links a user to a role. (UserID, RoleID) is unique.
type UserRole struct {
	UserID int64
	RoleID int64
}
