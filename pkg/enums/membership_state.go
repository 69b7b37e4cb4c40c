package enums

import "fmt"

// MembershipState captures a user's standing on an opportunity. Absence of a
// membership row means the user has no standing at all.
type MembershipState string

const (
	MembershipStatePending MembershipState = "pending"
	MembershipStateMember  MembershipState = "member"
	MembershipStateAdmin   MembershipState = "admin"
)

var validMembershipStates = []MembershipState{
	MembershipStatePending,
	MembershipStateMember,
	MembershipStateAdmin,
}

// String implements fmt.Stringer.
func (m MembershipState) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known MembershipState.
func (m MembershipState) IsValid() bool {
	for _, candidate := range validMembershipStates {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsMember reports whether the state grants member-level access. Admin standing
// always implies membership.
func (m MembershipState) IsMember() bool {
	return m == MembershipStateMember || m == MembershipStateAdmin
}

// ParseMembershipState converts raw input into a MembershipState.
func ParseMembershipState(value string) (MembershipState, error) {
	for _, candidate := range validMembershipStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership state %q", value)
}
