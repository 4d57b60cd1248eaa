package repository

import (
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
)

// scopeGrantRepository implements the ScopeGrantRepository interface
type scopeGrantRepository struct {
	db *gorm.DB
}

// NewScopeGrantRepository creates a new scope grant repository instance
func NewScopeGrantRepository(db *gorm.DB) ScopeGrantRepository {
	return &scopeGrantRepository{db: db}
}

// Create creates a new scope grant
func (r *scopeGrantRepository) Create(grant *models.ScopeGrant) error {
	return r.db.Create(grant).Error
}

// GetByID retrieves a scope grant by its ID
func (r *scopeGrantRepository) GetByID(id uint) (*models.ScopeGrant, error) {
	var grant models.ScopeGrant
	err := r.db.First(&grant, id).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// ListByMember returns all grants for a (workspace, user) pair
func (r *scopeGrantRepository) ListByMember(workspaceID, userID uint) ([]models.ScopeGrant, error) {
	var grants []models.ScopeGrant
	err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).Find(&grants).Error
	return grants, err
}

// Delete removes a scope grant by its ID
func (r *scopeGrantRepository) Delete(id uint) error {
	return r.db.Delete(&models.ScopeGrant{}, id).Error
}
