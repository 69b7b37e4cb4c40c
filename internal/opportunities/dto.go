package opportunities

import (
	"time"

	"github.com/google/uuid"

	"github.com/abronee/devex/pkg/db/models"
)

// OpportunityDTO is the wire shape of an opportunity.
type OpportunityDTO struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Short       *string    `json:"short,omitempty"`
	Description *string    `json:"description,omitempty"`
	Website     *string    `json:"website,omitempty"`
	ProgramID   *uuid.UUID `json:"program_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedByID *uuid.UUID `json:"created_by,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UpdatedByID *uuid.UUID `json:"updated_by,omitempty"`
}

// FromModel converts a persisted opportunity into its wire shape.
func FromModel(opp *models.Opportunity) *OpportunityDTO {
	if opp == nil {
		return nil
	}
	return &OpportunityDTO{
		ID:          opp.ID,
		Code:        opp.Code,
		Title:       opp.Title,
		Short:       opp.Short,
		Description: opp.Description,
		Website:     opp.Website,
		ProgramID:   opp.ProgramID,
		ProjectID:   opp.ProjectID,
		CreatedAt:   opp.CreatedAt,
		CreatedByID: opp.CreatedByID,
		UpdatedAt:   opp.UpdatedAt,
		UpdatedByID: opp.UpdatedByID,
	}
}

// CreateOpportunityInput captures the fields accepted at creation. Code is
// never accepted from the caller; it is derived from the title.
type CreateOpportunityInput struct {
	Title       string
	Short       *string
	Description *string
	Website     *string
	ProgramID   *uuid.UUID
	ProjectID   *uuid.UUID
}

// UpdateOpportunityInput captures the mutable fields. Code and title-derived
// roles are frozen after creation, so code is deliberately absent.
type UpdateOpportunityInput struct {
	Title       *string
	Short       *string
	Description *string
	Website     *string
	ProgramID   *uuid.UUID
	ProjectID   *uuid.UUID
}
