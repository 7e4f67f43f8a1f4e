package entities

// Role is the closed set of roles carried by the identity token.

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleClient
}

// Actor is the already-authenticated caller of a use case.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Counterpart returns the role on the other side of the message thread.
func (r Role) Counterpart() Role {
	if r == RoleAdmin {
		return RoleClient
	}
	return RoleAdmin
}
