package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abronee/devex/pkg/db/models"
	"github.com/abronee/devex/pkg/enums"
)

// Repository handles user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to user operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByMembership returns the users holding any of the provided standings on
// the opportunity, ordered by display name.
func (r *Repository) ListByMembership(ctx context.Context, opportunityID uuid.UUID, states ...enums.MembershipState) ([]models.User, error) {
	if len(states) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN opportunity_memberships ON opportunity_memberships.user_id = users.id").
		Where("opportunity_memberships.opportunity_id = ? AND opportunity_memberships.state IN ?", opportunityID, states).
		Order("users.display_name").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
