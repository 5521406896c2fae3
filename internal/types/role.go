package types

// Role is the caller's resolved role for the current session. There are only
// two: managers ("jefes") may edit ceilings and mint flash tokens, agents may
// not. Once granted, manager role persists for the rest of the session.
type Role string

const (
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

func (r Role) IsManager() bool {
	return r == RoleManager
}
