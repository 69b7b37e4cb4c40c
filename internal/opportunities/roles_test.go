package opportunities

import (
	"testing"

	"github.com/abronee/devex/pkg/enums"
)

func TestRoleStrings(t *testing.T) {
	if got := MemberRole("cup-of-water"); got != "cup-of-water" {
		t.Fatalf("member role: got %q", got)
	}
	if got := AdminRole("cup-of-water"); got != "cup-of-water-admin" {
		t.Fatalf("admin role: got %q", got)
	}
	if got := RequestRole("cup-of-water"); got != "cup-of-water-request" {
		t.Fatalf("request role: got %q", got)
	}
}

func TestRolesForState(t *testing.T) {
	cases := []struct {
		name  string
		state enums.MembershipState
		want  []string
	}{
		{"admin implies member", enums.MembershipStateAdmin, []string{"cup-of-water", "cup-of-water-admin"}},
		{"member", enums.MembershipStateMember, []string{"cup-of-water"}},
		{"pending", enums.MembershipStatePending, []string{"cup-of-water-request"}},
		{"unknown", enums.MembershipState("banned"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RolesForState("cup-of-water", tc.state)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	roles := []string{"cup-of-water", "other-admin"}
	if !HasRole(roles, "cup-of-water") {
		t.Fatal("expected match")
	}
	if HasRole(roles, "cup-of-water-admin") {
		t.Fatal("admin role must not match the bare member role")
	}
	if HasRole(nil, "anything") {
		t.Fatal("empty set matches nothing")
	}
}

func TestIsPlatformAdmin(t *testing.T) {
	if !IsPlatformAdmin([]string{"gov", "admin"}) {
		t.Fatal("expected platform admin")
	}
	if IsPlatformAdmin([]string{"cup-of-water-admin"}) {
		t.Fatal("opportunity admin is not a platform admin")
	}
}
