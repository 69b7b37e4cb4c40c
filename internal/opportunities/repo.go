package opportunities

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abronee/devex/pkg/db/models"
)

// Repository handles opportunity persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to opportunity operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new opportunity row.
func (r *Repository) Create(ctx context.Context, opp *models.Opportunity) error {
	if opp == nil {
		return fmt.Errorf("opportunity is required")
	}
	return r.db.WithContext(ctx).Create(opp).Error
}

// FindByID loads an opportunity by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	var opp models.Opportunity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&opp).Error; err != nil {
		return nil, err
	}
	return &opp, nil
}

// CodeExists reports whether any opportunity already owns the code.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var opp models.Opportunity
	err := r.db.WithContext(ctx).Select("id").Where("code = ?", code).First(&opp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update saves the provided opportunity.
func (r *Repository) Update(ctx context.Context, opp *models.Opportunity) error {
	if opp == nil {
		return fmt.Errorf("opportunity is required")
	}
	return r.db.WithContext(ctx).Save(opp).Error
}

// Delete removes the opportunity; membership rows cascade at the storage level.
func (r *Repository) Delete(ctx context.Context, opp *models.Opportunity) error {
	if opp == nil {
		return fmt.Errorf("opportunity is required")
	}
	return r.db.WithContext(ctx).Delete(opp).Error
}

// ListAll returns every opportunity ordered by title.
func (r *Repository) ListAll(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	if err := r.db.WithContext(ctx).Order("title").Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}
