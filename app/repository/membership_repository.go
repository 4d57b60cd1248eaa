package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
)

// ErrAlreadyMember is returned when an invite accept would create a second
// active membership for the same user in the same workspace.
var ErrAlreadyMember = errors.New("user is already an active member of this workspace")

// membershipRepository implements the MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository instance
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership (usually a pending invite)
func (r *membershipRepository) Create(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

// GetByID retrieves a membership by its ID
func (r *membershipRepository) GetByID(id uint) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	err := r.db.First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetActive retrieves the active membership for a (workspace, user) pair
func (r *membershipRepository) GetActive(workspaceID, userID uint) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	err := r.db.
		Where("workspace_id = ? AND user_id = ? AND status = ?", workspaceID, userID, models.MemberStatusActive).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByInviteToken retrieves a pending membership by its invite token
func (r *membershipRepository) GetByInviteToken(token string) (*models.WorkspaceMember, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var member models.WorkspaceMember
	err := r.db.
		Where("invite_token = ? AND status = ?", token, models.MemberStatusPending).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByWorkspace returns all memberships of a workspace
func (r *membershipRepository) ListByWorkspace(workspaceID uint) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	err := r.db.Where("workspace_id = ?", workspaceID).Find(&members).Error
	return members, err
}

// CountActiveByWorkspace counts active members for seat quota checks
func (r *membershipRepository) CountActiveByWorkspace(workspaceID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND status = ?", workspaceID, models.MemberStatusActive).
		Count(&count).Error
	return count, err
}

// Activate flips a pending membership to active and binds it to the
// accepting user. The invite token is cleared so it cannot be replayed.
// At most one active row may exist per (workspace, user), so an accept
// by someone who is already an active member fails with ErrAlreadyMember.
func (r *membershipRepository) Activate(member *models.WorkspaceMember, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.WorkspaceMember{}).
			Where("workspace_id = ? AND user_id = ? AND status = ?", member.WorkspaceID, userID, models.MemberStatusActive).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}
		if err := tx.Model(member).Updates(map[string]interface{}{
			"user_id":      userID,
			"status":       models.MemberStatusActive,
			"invite_token": "",
		}).Error; err != nil {
			return err
		}
		member.BindUser(userID)
		return nil
	})
}

// DeleteWithGrants removes a membership and cascades its scope grants in
// one transaction. Pending invites have no user and therefore no grants.
func (r *membershipRepository) DeleteWithGrants(member *models.WorkspaceMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if member.UserID != nil {
			if err := tx.
				Where("workspace_id = ? AND user_id = ?", member.WorkspaceID, *member.UserID).
				Delete(&models.ScopeGrant{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(member).Error
	})
}
