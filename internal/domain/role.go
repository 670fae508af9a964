package domain

import "fmt"

// Role is the ordered trust level attached to a credential. Transitions only
// move forward: UNVERIFIED → PHONE_VERIFIED → SUBSCRIBED.
type Role string

const (
	RoleUnverified    Role = "UNVERIFIED"
	RolePhoneVerified Role = "PHONE_VERIFIED"
	RoleSubscribed    Role = "SUBSCRIBED"
)

var roleRank = map[Role]int{
	RoleUnverified:    0,
	RolePhoneVerified: 1,
	RoleSubscribed:    2,
}

// ParseRole validates a stored or token-carried role string. Unknown values
// are rejected rather than defaulted, so a tampered or legacy token can never
// decode into a usable role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrUnauthorized)
	}
	return r, nil
}

// Rank returns the role's position on the trust ladder. Unknown roles rank
// below UNVERIFIED.
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

func (r Role) String() string { return string(r) }
