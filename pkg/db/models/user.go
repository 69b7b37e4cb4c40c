package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User represents the canonical identity entity. Roles holds platform-wide
// markers only ("admin", "gov"); opportunity standing lives in
// OpportunityMembership rows.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string         `gorm:"type:text;not null;uniqueIndex"`
	DisplayName string         `gorm:"column:display_name;not null"`
	Roles       pq.StringArray `gorm:"type:text[];column:roles;not null;default:ARRAY[]::text[]"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
