package opportunities

import (
	"testing"

	"github.com/google/uuid"
)

func TestDecorateFlagsAreIndependent(t *testing.T) {
	dto := &OpportunityDTO{ID: uuid.New(), Code: "cup-of-water", Title: "Cup of Water"}

	cases := []struct {
		name  string
		roles []string
		want  UserIs
	}{
		{"anonymous", nil, UserIs{}},
		{"member only", []string{"cup-of-water"}, UserIs{Member: true}},
		{"admin without member string", []string{"cup-of-water-admin"}, UserIs{Admin: true}},
		{"request only", []string{"cup-of-water-request"}, UserIs{Request: true}},
		{"member and admin", []string{"cup-of-water", "cup-of-water-admin"}, UserIs{Admin: true, Member: true}},
		{"platform admin", []string{"admin"}, UserIs{Admin: true}},
		{"gov marker", []string{"gov"}, UserIs{Gov: true}},
		{"other opportunity roles ignored", []string{"beach-cleanup", "beach-cleanup-admin"}, UserIs{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decorate(dto, tc.roles).UserIs
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestDecorateKeepsBody(t *testing.T) {
	dto := &OpportunityDTO{ID: uuid.New(), Code: "cup-of-water", Title: "Cup of Water"}
	decorated := Decorate(dto, []string{"cup-of-water"})
	if decorated.ID != dto.ID || decorated.Code != dto.Code || decorated.Title != dto.Title {
		t.Fatalf("body mismatch: %+v", decorated.OpportunityDTO)
	}
}

func TestDecorateNilOpportunity(t *testing.T) {
	decorated := Decorate(nil, []string{"gov", "-admin"})
	if decorated.Code != "" {
		t.Fatalf("expected zero body, got %+v", decorated.OpportunityDTO)
	}
	// flags compute against the empty code, so bare suffixes match
	if !decorated.UserIs.Admin || !decorated.UserIs.Gov {
		t.Fatalf("expected degenerate admin and gov flags, got %+v", decorated.UserIs)
	}
}

func TestDecorateListPreservesOrder(t *testing.T) {
	first := &OpportunityDTO{Code: "alpha"}
	second := &OpportunityDTO{Code: "beta"}
	decorated := DecorateList([]*OpportunityDTO{first, second}, []string{"beta"})
	if len(decorated) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decorated))
	}
	if decorated[0].Code != "alpha" || decorated[1].Code != "beta" {
		t.Fatalf("order not preserved: %+v", decorated)
	}
	if decorated[0].UserIs.Member || !decorated[1].UserIs.Member {
		t.Fatalf("flags applied to wrong entries: %+v", decorated)
	}
}

func TestDecorateListEmpty(t *testing.T) {
	decorated := DecorateList(nil, []string{"admin"})
	if len(decorated) != 0 {
		t.Fatalf("expected empty slice, got %d entries", len(decorated))
	}
}
