package models

import "time"

const (
	ScopeTypeWorkspace = "workspace"
	ScopeTypeCampaign  = "campaign"
	ScopeTypeCalendar  = "calendar"
)

// ScopeGrant is a fine-grained access grant layered on top of the member
// role. ScopeValue is the persisted encoding: "editor"/"viewer" for
// workspace and calendar scope, "<campaign_id>:<editor|viewer>" for
// campaign scope. Callers must parse it through access.ParseScopeValue
// immediately on read; malformed values mean "no grant".
type ScopeGrant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID uint      `gorm:"not null;index:idx_scope_grants_ws_user,priority:1" json:"workspace_id"`
	UserID      uint      `gorm:"not null;index:idx_scope_grants_ws_user,priority:2" json:"user_id"`
	ScopeType   string    `gorm:"type:varchar(16);not null" json:"scope_type"`
	ScopeValue  string    `gorm:"type:varchar(64);not null" json:"scope_value"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
