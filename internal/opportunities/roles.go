package opportunities

import (
	"github.com/abronee/devex/pkg/enums"
)

// Membership in an opportunity is expressed to clients as plain role strings
// derived from the opportunity code:
//
//	member  : <code>
//	admin   : <code>-admin
//	request : <code>-request
//
// Storage uses the opportunity_memberships relation; these functions are the
// canonical projection between the two. Callers must only derive roles from a
// code assigned by FindUniqueCode; an empty code degenerates to the bare
// suffixes.
const (
	adminSuffix   = "-admin"
	requestSuffix = "-request"

	// PlatformAdminRole marks a platform-wide administrator. It overrides the
	// opportunity-scoped admin role everywhere the gate is consulted.
	PlatformAdminRole = "admin"

	// GovRole is a platform-wide marker surfaced to the UI; it is unrelated to
	// any single opportunity.
	GovRole = "gov"
)

// MemberRole returns the role string granting membership.
func MemberRole(code string) string {
	return code
}

// AdminRole returns the role string granting administration rights.
func AdminRole(code string) string {
	return code + adminSuffix
}

// RequestRole returns the role string marking a pending membership request.
func RequestRole(code string) string {
	return code + requestSuffix
}

// RolesForState expands a stored membership state into the role strings it
// grants. Admin standing implies membership.
func RolesForState(code string, state enums.MembershipState) []string {
	switch state {
	case enums.MembershipStateAdmin:
		return []string{MemberRole(code), AdminRole(code)}
	case enums.MembershipStateMember:
		return []string{MemberRole(code)}
	case enums.MembershipStatePending:
		return []string{RequestRole(code)}
	}
	return nil
}

// HasRole reports whether the role set contains the given role.
func HasRole(roles []string, role string) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// IsPlatformAdmin reports whether the role set carries the platform-wide
// administrator marker.
func IsPlatformAdmin(roles []string) bool {
	return HasRole(roles, PlatformAdminRole)
}
