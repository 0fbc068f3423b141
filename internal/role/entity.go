package role

// Role is the single permission flag a user carries.
type Role string

const (
	Admin  Role = "admin"
	Member Role = "member"
)

// Parse accepts only the known roles.
func Parse(s string) (Role, bool) {
	switch Role(s) {
	case Admin, Member:
		return Role(s), true
	}
	return "", false
}
