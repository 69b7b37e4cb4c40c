package models

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is the shared resource membership is granted against. Code is
// assigned once at creation and never reassigned, even when the title changes,
// because every derived role identifier is anchored on it.
type Opportunity struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string     `gorm:"column:code;not null;uniqueIndex:opportunities_code_key"`
	Title       string     `gorm:"column:title;not null"`
	Short       *string    `gorm:"column:short"`
	Description *string    `gorm:"column:description"`
	Website     *string    `gorm:"column:website"`
	ProgramID   *uuid.UUID `gorm:"column:program_id;type:uuid"`
	ProjectID   *uuid.UUID `gorm:"column:project_id;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	CreatedByID *uuid.UUID `gorm:"column:created_by;type:uuid"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedByID *uuid.UUID `gorm:"column:updated_by;type:uuid"`
}

// ApplyAudit records who touched the row. Timestamps are handled by GORM's
// auto-create/auto-update hooks.
func (o *Opportunity) ApplyAudit(actorID uuid.UUID) {
	if o.CreatedByID == nil {
		actor := actorID
		o.CreatedByID = &actor
	}
	actor := actorID
	o.UpdatedByID = &actor
}
