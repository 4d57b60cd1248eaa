package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CampaignStatusActive   = "active"
	CampaignStatusArchived = "archived"
)

// Campaign is one tracked social-media campaign inside a workspace. Only
// active campaigns count against the plan's campaign limit.
type Campaign struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	WorkspaceID uint           `gorm:"not null;index:idx_campaigns_ws_status,priority:1" json:"workspace_id"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Description string         `gorm:"type:text;default:null" json:"description" validate:"max=2000"`
	Status      string         `gorm:"type:varchar(16);not null;default:'active';index:idx_campaigns_ws_status,priority:2" json:"status"`
	StartsAt    *time.Time     `gorm:"type:timestamp;default:null" json:"starts_at,omitempty"`
	EndsAt      *time.Time     `gorm:"type:timestamp;default:null" json:"ends_at,omitempty"`
	ViewCount   int64          `gorm:"default:0" json:"view_count"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Campaign) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BeforeCreate assigns a public UUID when none was set
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the campaign counts against the plan limit
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}
