package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Workspace is the tenant boundary: campaigns, members, scope grants and the
// subscription all hang off one workspace.
type Workspace struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Slug      string         `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug" validate:"required,min=2,max=160"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (w *Workspace) Validate() error {
	v := validator.New()

	return v.Struct(w)
}
