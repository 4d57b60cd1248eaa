package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetWorkspaceRepository returns the workspace repository instance
func (f *Factory) GetWorkspaceRepository() WorkspaceRepository {
	return f.GetRepositories().Workspace
}

// GetMembershipRepository returns the membership repository instance
func (f *Factory) GetMembershipRepository() MembershipRepository {
	return f.GetRepositories().Membership
}

// GetScopeGrantRepository returns the scope grant repository instance
func (f *Factory) GetScopeGrantRepository() ScopeGrantRepository {
	return f.GetRepositories().ScopeGrant
}

// GetCampaignRepository returns the campaign repository instance
func (f *Factory) GetCampaignRepository() CampaignRepository {
	return f.GetRepositories().Campaign
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
