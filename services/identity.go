package services

// Role values stored on the users auth collection.
const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

// Identity is the authenticated caller. A nil *Identity means the request is
// unauthenticated and only local-state flows are available.
type Identity struct {
	ID   string
	Role string
}

// IsAdmin reports whether the identity exists and carries the admin role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}
