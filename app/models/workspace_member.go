package models

import "time"

const (
	MemberRoleBrandOwner  = "brand_owner"
	MemberRoleAgencyAdmin = "agency_admin"
	MemberRoleBrandMember = "brand_member"
	MemberRoleAgencyOps   = "agency_ops"
)

const (
	MemberStatusActive  = "active"
	MemberStatusPending = "pending"
)

// WorkspaceMember is one user's membership in one workspace. Exactly one
// active row may exist per (workspace_id, user_id). Pending invites carry
// no user yet, so user_id stays NULL until the invite is accepted and the
// unique key only bites on bound rows.
type WorkspaceMember struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	WorkspaceID  uint       `gorm:"not null;index:ux_workspace_members_ws_user,unique,priority:1" json:"workspace_id"`
	UserID       *uint      `gorm:"index:ux_workspace_members_ws_user,unique,priority:2;index" json:"user_id"`
	Role         string     `gorm:"type:varchar(32);not null;default:'brand_member'" json:"role"`
	Status       string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	InvitedEmail string     `gorm:"type:varchar(200);default:null" json:"invited_email,omitempty"`
	InviteToken  string     `gorm:"type:varchar(64);default:null;index" json:"-"`
	InviteSentAt *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewPendingInvite builds an unbound membership for an invited email
// address. The row gets its user when the invite is accepted.
func NewPendingInvite(workspaceID uint, role, email, inviteToken string) *WorkspaceMember {
	now := time.Now()
	return &WorkspaceMember{
		WorkspaceID:  workspaceID,
		Role:         role,
		Status:       MemberStatusPending,
		InvitedEmail: email,
		InviteToken:  inviteToken,
		InviteSentAt: &now,
	}
}

// IsActive reports whether the membership has been accepted
func (m *WorkspaceMember) IsActive() bool {
	return m.Status == MemberStatusActive
}

// BindUser activates the membership for the accepting user and burns the
// invite token so the link cannot be replayed.
func (m *WorkspaceMember) BindUser(userID uint) {
	m.UserID = &userID
	m.Status = MemberStatusActive
	m.InviteToken = ""
}
