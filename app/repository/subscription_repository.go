package repository

import (
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates the initial subscription row for a workspace
func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// GetByWorkspace retrieves the subscription for a workspace
func (r *subscriptionRepository) GetByWorkspace(workspaceID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("workspace_id = ?", workspaceID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
