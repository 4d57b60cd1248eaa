package repository

import (
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
}

// WorkspaceRepository defines the interface for workspace operations
type WorkspaceRepository interface {
	Create(workspace *models.Workspace) error
	GetByID(id uint) (*models.Workspace, error)
	GetBySlug(slug string) (*models.Workspace, error)
	ListByUser(userID uint) ([]models.Workspace, error)
	Update(workspace *models.Workspace) error
	SlugExists(slug string) (bool, error)
}

// MembershipRepository defines the interface for workspace membership
// operations. Deletion cascades the member's scope grants in the same
// transaction: a grant without its membership is meaningless.
type MembershipRepository interface {
	Create(member *models.WorkspaceMember) error
	GetByID(id uint) (*models.WorkspaceMember, error)
	GetActive(workspaceID, userID uint) (*models.WorkspaceMember, error)
	GetByInviteToken(token string) (*models.WorkspaceMember, error)
	ListByWorkspace(workspaceID uint) ([]models.WorkspaceMember, error)
	CountActiveByWorkspace(workspaceID uint) (int64, error)
	Activate(member *models.WorkspaceMember, userID uint) error
	DeleteWithGrants(member *models.WorkspaceMember) error
}

// ScopeGrantRepository defines the interface for scope grant operations
type ScopeGrantRepository interface {
	Create(grant *models.ScopeGrant) error
	GetByID(id uint) (*models.ScopeGrant, error)
	ListByMember(workspaceID, userID uint) ([]models.ScopeGrant, error)
	Delete(id uint) error
}

// CampaignRepository defines the interface for campaign operations
type CampaignRepository interface {
	Create(campaign *models.Campaign) error
	GetByID(id uint) (*models.Campaign, error)
	GetByUUID(uuid string) (*models.Campaign, error)
	ListByWorkspace(workspaceID uint) ([]models.Campaign, error)
	CountActiveByWorkspace(workspaceID uint) (int64, error)
	Update(campaign *models.Campaign) error
	AddCreator(creator *models.CampaignCreator) error
	RemoveCreator(id uint) error
	GetCreator(id uint) (*models.CampaignCreator, error)
	ListCreators(campaignID uint) ([]models.CampaignCreator, error)
	CountCreators(campaignID uint) (int64, error)
	UpdateViewCount(id uint, delta int64) error
}

// SubscriptionRepository defines the interface for subscription reads used
// by the policy engine. Writes go through the billing service exclusively.
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByWorkspace(workspaceID uint) (*models.Subscription, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Workspace    WorkspaceRepository
	Membership   MembershipRepository
	ScopeGrant   ScopeGrantRepository
	Campaign     CampaignRepository
	Subscription SubscriptionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Workspace:    NewWorkspaceRepository(db),
		Membership:   NewMembershipRepository(db),
		ScopeGrant:   NewScopeGrantRepository(db),
		Campaign:     NewCampaignRepository(db),
		Subscription: NewSubscriptionRepository(db),
	}
}

// GetActiveMembership implements the gate.Store interface on top of the
// repository set so the policy loader can be wired without an adapter.
func (r *Repositories) GetActiveMembership(workspaceID, userID uint) (*models.WorkspaceMember, error) {
	return r.Membership.GetActive(workspaceID, userID)
}

// ListScopeGrants implements the gate.Store interface.
func (r *Repositories) ListScopeGrants(workspaceID, userID uint) ([]models.ScopeGrant, error) {
	return r.ScopeGrant.ListByMember(workspaceID, userID)
}

// GetSubscription implements the gate.Store interface.
func (r *Repositories) GetSubscription(workspaceID uint) (*models.Subscription, error) {
	return r.Subscription.GetByWorkspace(workspaceID)
}
