package models

import "time"

const (
	SubscriptionStatusFree     = "free"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

const (
	BillingCycleMonth   = "month"
	BillingCycleYear    = "year"
	BillingCycleUnknown = "unknown"
)

const (
	AgencyRoleNone        = "none"
	AgencyRoleAgency      = "agency"
	AgencyRoleSuperAgency = "super_agency"
)

// Subscription mirrors a workspace's billing state and maps it to an
// internal plan tier used by entitlements. Exactly one row per workspace;
// it is created as "free" at workspace creation and only the billing sync
// write path mutates it afterwards.
type Subscription struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	WorkspaceID            uint       `gorm:"not null;uniqueIndex" json:"workspace_id"`
	Tier                   string     `gorm:"type:varchar(32);not null;default:'free';index" json:"tier"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'free';index" json:"status"`
	BillingCycle           string     `gorm:"type:varchar(16);not null;default:'unknown'" json:"billing_cycle"`
	ExtraSeats             int        `gorm:"not null;default:0" json:"extra_seats"`
	AgencyRole             string     `gorm:"type:varchar(16);not null;default:'none'" json:"agency_role"`
	Provider               string     `gorm:"type:varchar(20);default:null;index:ux_subscriptions_provider_subid,unique,priority:1" json:"provider,omitempty"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);default:null;index:ux_subscriptions_provider_subid,unique,priority:2" json:"provider_subscription_id,omitempty"`
	TrialEndAt             *time.Time `gorm:"type:timestamp;default:null" json:"trial_end_at,omitempty"`
	CurrentPeriodEndAt     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end_at,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
