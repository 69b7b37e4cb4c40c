package memberships

import (
	"github.com/abronee/devex/pkg/enums"
)

// Standing pairs an opportunity code with the state a user holds on it. It is
// the raw material the role codec expands into role strings.
type Standing struct {
	Code  string                `gorm:"column:code"`
	State enums.MembershipState `gorm:"column:state"`
}
