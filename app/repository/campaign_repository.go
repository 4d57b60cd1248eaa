package repository

import (
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
)

// campaignRepository implements the CampaignRepository interface
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository instance
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create creates a new campaign
func (r *campaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByID retrieves a campaign by its ID
func (r *campaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.First(&campaign, id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetByUUID retrieves a campaign by its public UUID
func (r *campaignRepository) GetByUUID(uuid string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Where("uuid = ?", uuid).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListByWorkspace returns all campaigns of a workspace
func (r *campaignRepository) ListByWorkspace(workspaceID uint) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Where("workspace_id = ?", workspaceID).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

// CountActiveByWorkspace counts active campaigns for quota checks
func (r *campaignRepository) CountActiveByWorkspace(workspaceID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Campaign{}).
		Where("workspace_id = ? AND status = ?", workspaceID, models.CampaignStatusActive).
		Count(&count).Error
	return count, err
}

// Update updates an existing campaign
func (r *campaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// AddCreator assigns a creator to a campaign
func (r *campaignRepository) AddCreator(creator *models.CampaignCreator) error {
	return r.db.Create(creator).Error
}

// RemoveCreator removes a creator assignment by its ID
func (r *campaignRepository) RemoveCreator(id uint) error {
	return r.db.Delete(&models.CampaignCreator{}, id).Error
}

// GetCreator retrieves a creator assignment by its ID
func (r *campaignRepository) GetCreator(id uint) (*models.CampaignCreator, error) {
	var creator models.CampaignCreator
	err := r.db.First(&creator, id).Error
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

// ListCreators returns all creator assignments of a campaign
func (r *campaignRepository) ListCreators(campaignID uint) ([]models.CampaignCreator, error) {
	var creators []models.CampaignCreator
	err := r.db.Where("campaign_id = ?", campaignID).Find(&creators).Error
	return creators, err
}

// CountCreators counts creator assignments for quota checks
func (r *campaignRepository) CountCreators(campaignID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CampaignCreator{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return count, err
}

// UpdateViewCount applies a batched view-count increment
func (r *campaignRepository) UpdateViewCount(id uint, delta int64) error {
	return r.db.Model(&models.Campaign{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta)).Error
}
