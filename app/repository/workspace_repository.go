package repository

import (
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
)

// workspaceRepository implements the WorkspaceRepository interface
type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new workspace repository instance
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

// Create creates a workspace together with its owner membership and a free
// subscription row in one transaction. A workspace is never without either.
func (r *workspaceRepository) Create(workspace *models.Workspace) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}
		member := &models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      &workspace.OwnerID,
			Role:        models.MemberRoleBrandOwner,
			Status:      models.MemberStatusActive,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		sub := &models.Subscription{
			WorkspaceID: workspace.ID,
			Tier:        "free",
			Status:      models.SubscriptionStatusFree,
		}
		return tx.Create(sub).Error
	})
}

// GetByID retrieves a workspace by its ID
func (r *workspaceRepository) GetByID(id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.First(&workspace, id).Error
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// GetBySlug retrieves a workspace by its slug
func (r *workspaceRepository) GetBySlug(slug string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.Where("slug = ?", slug).First(&workspace).Error
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// ListByUser returns all workspaces the user is an active member of
func (r *workspaceRepository) ListByUser(userID uint) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ? AND workspace_members.status = ?", userID, models.MemberStatusActive).
		Find(&workspaces).Error
	return workspaces, err
}

// Update updates an existing workspace
func (r *workspaceRepository) Update(workspace *models.Workspace) error {
	return r.db.Save(workspace).Error
}

// SlugExists checks whether a slug is already taken
func (r *workspaceRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Workspace{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
