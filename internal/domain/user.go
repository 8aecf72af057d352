package domain

// UserRole is carried in the access token. Accounts themselves live in the
// identity provider that issues the tokens.
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleCoach  UserRole = "coach"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleCoach, RoleAdmin:
		return true
	default:
		return false
	}
}
