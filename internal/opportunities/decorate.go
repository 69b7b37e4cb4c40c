package opportunities

// UserIs carries the viewer-relative membership flags. The flags are computed
// independently of each other; admin does not force member.
type UserIs struct {
	Admin   bool `json:"admin"`
	Member  bool `json:"member"`
	Request bool `json:"request"`
	Gov     bool `json:"gov"`
}

// Decorated is the read-only projection of an opportunity for one viewer. It
// is computed fresh per request and never persisted.
type Decorated struct {
	OpportunityDTO
	UserIs UserIs `json:"userIs"`
}

// Decorate projects the opportunity plus the viewer's role set into a
// presentation-ready structure. A nil opportunity decorates to a zero body
// with flags computed against an empty code.
func Decorate(dto *OpportunityDTO, roles []string) Decorated {
	decorated := Decorated{}
	if dto != nil {
		decorated.OpportunityDTO = *dto
	}

	code := decorated.Code
	decorated.UserIs = UserIs{
		Admin:   HasRole(roles, AdminRole(code)) || IsPlatformAdmin(roles),
		Member:  HasRole(roles, MemberRole(code)),
		Request: HasRole(roles, RequestRole(code)),
		Gov:     HasRole(roles, GovRole),
	}
	return decorated
}

// DecorateList decorates each opportunity with the same viewer role set,
// preserving input order.
func DecorateList(dtos []*OpportunityDTO, roles []string) []Decorated {
	decorated := make([]Decorated, 0, len(dtos))
	for _, dto := range dtos {
		decorated = append(decorated, Decorate(dto, roles))
	}
	return decorated
}
