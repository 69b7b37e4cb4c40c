package memberships

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abronee/devex/pkg/db/models"
	"github.com/abronee/devex/pkg/enums"
)

// Repository exposes membership persistence operations. Every mutation is a
// single statement against the (opportunity_id, user_id) unique pair, so no
// transition can leave a half-applied standing behind.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var conflictTarget = []clause.Column{
	{Name: "opportunity_id"},
	{Name: "user_id"},
}

// Get retrieves a membership by opportunity and user.
func (r *Repository) Get(ctx context.Context, opportunityID, userID uuid.UUID) (*models.OpportunityMembership, error) {
	var membership models.OpportunityMembership
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ? AND user_id = ?", opportunityID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Upsert sets the user's standing, overwriting whatever was there.
func (r *Repository) Upsert(ctx context.Context, opportunityID, userID uuid.UUID, state enums.MembershipState) error {
	membership := &models.OpportunityMembership{
		OpportunityID: opportunityID,
		UserID:        userID,
		State:         state,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   conflictTarget,
			DoUpdates: clause.Assignments(map[string]any{"state": state, "updated_at": gorm.Expr("now()")}),
		}).
		Create(membership).Error
}

// UpsertUnlessAdmin sets the user's standing but never demotes an existing
// admin row.
func (r *Repository) UpsertUnlessAdmin(ctx context.Context, opportunityID, userID uuid.UUID, state enums.MembershipState) error {
	membership := &models.OpportunityMembership{
		OpportunityID: opportunityID,
		UserID:        userID,
		State:         state,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   conflictTarget,
			DoUpdates: clause.Assignments(map[string]any{"state": state, "updated_at": gorm.Expr("now()")}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("opportunity_memberships.state <> ?", enums.MembershipStateAdmin),
			}},
		}).
		Create(membership).Error
}

// InsertIfAbsent records the standing only when the user has none at all; an
// existing row of any state is left untouched.
func (r *Repository) InsertIfAbsent(ctx context.Context, opportunityID, userID uuid.UUID, state enums.MembershipState) error {
	membership := &models.OpportunityMembership{
		OpportunityID: opportunityID,
		UserID:        userID,
		State:         state,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: conflictTarget, DoNothing: true}).
		Create(membership).Error
}

// Promote moves the user's standing from one state to another in a single
// update. It reports whether a row actually transitioned.
func (r *Repository) Promote(ctx context.Context, opportunityID, userID uuid.UUID, from, to enums.MembershipState) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OpportunityMembership{}).
		Where("opportunity_id = ? AND user_id = ? AND state = ?", opportunityID, userID, from).
		Updates(map[string]any{"state": to, "updated_at": gorm.Expr("now()")})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteStates removes the user's standing when it matches one of the provided
// states. Removing an absent standing is a no-op.
func (r *Repository) DeleteStates(ctx context.Context, opportunityID, userID uuid.UUID, states ...enums.MembershipState) error {
	if len(states) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("opportunity_id = ? AND user_id = ? AND state IN ?", opportunityID, userID, states).
		Delete(&models.OpportunityMembership{}).Error
}

// HasState reports whether the user holds one of the provided states for the
// opportunity.
func (r *Repository) HasState(ctx context.Context, opportunityID, userID uuid.UUID, states ...enums.MembershipState) (bool, error) {
	if len(states) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OpportunityMembership{}).
		Where("opportunity_id = ? AND user_id = ? AND state IN ?", opportunityID, userID, states).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StandingsFor returns every (code, state) pair the user holds, ordered by
// opportunity code for stable output.
func (r *Repository) StandingsFor(ctx context.Context, userID uuid.UUID) ([]Standing, error) {
	var standings []Standing
	err := r.db.WithContext(ctx).
		Model(&models.OpportunityMembership{}).
		Select("opportunities.code AS code, opportunity_memberships.state AS state").
		Joins("JOIN opportunities ON opportunities.id = opportunity_memberships.opportunity_id").
		Where("opportunity_memberships.user_id = ?", userID).
		Order("opportunities.code").
		Scan(&standings).Error
	if err != nil {
		return nil, err
	}
	return standings, nil
}
