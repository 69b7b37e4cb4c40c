package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/abronee/devex/pkg/enums"
)

// OpportunityMembership links a user with an opportunity and captures their
// standing. At most one row exists per (opportunity, user) pair, which is what
// keeps contradictory standings (pending and member at once) unrepresentable.
type OpportunityMembership struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OpportunityID uuid.UUID             `gorm:"column:opportunity_id;type:uuid;not null;uniqueIndex:opportunity_memberships_pair_key"`
	UserID        uuid.UUID             `gorm:"column:user_id;type:uuid;not null;uniqueIndex:opportunity_memberships_pair_key"`
	State         enums.MembershipState `gorm:"column:state;type:membership_state;not null"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
