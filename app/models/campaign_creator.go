package models

import "time"

const (
	CreatorStatusRequested = "requested"
	CreatorStatusAccepted  = "accepted"
	CreatorStatusDeclined  = "declined"
)

// CampaignCreator is one creator assigned to (or requested for) a campaign.
// Rows count against the plan's creators-per-campaign limit regardless of
// status: a pending request already consumes a slot.
type CampaignCreator struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CampaignID uint      `gorm:"not null;index:ux_campaign_creators_handle,unique,priority:1" json:"campaign_id"`
	Handle     string    `gorm:"type:varchar(100);not null;index:ux_campaign_creators_handle,unique,priority:2" json:"handle"`
	Platform   string    `gorm:"type:varchar(32);not null;index:ux_campaign_creators_handle,unique,priority:3" json:"platform"`
	Status     string    `gorm:"type:varchar(16);not null;default:'requested'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
