package entities

// Identity is the authenticated caller supplied by the identity provider.
type Identity struct {
	UserID string
	Role   string
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
