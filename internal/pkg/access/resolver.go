package access

// Snapshot is a user's fully materialized access state for one workspace:
// membership role plus parsed scope grants. Snapshots are built by the
// loader from already-fetched rows; the resolver itself never does I/O,
// so repeated evaluation against the same snapshot is safe and free of
// side effects.
type Snapshot struct {
	Role   Role
	Grants []ScopeRef
}

// NewSnapshot parses raw stored grants into a snapshot. Malformed grant
// values are silently dropped (fail-closed).
func NewSnapshot(role string, grants []RawGrant) Snapshot {
	snap := Snapshot{Role: ParseRole(role)}
	for _, g := range grants {
		if ref, ok := ParseScopeValue(g.ScopeType, g.ScopeValue); ok {
			snap.Grants = append(snap.Grants, ref)
		}
	}
	return snap
}

// RawGrant is the persisted shape of a scope grant as handed over by the
// storage layer.
type RawGrant struct {
	ScopeType  string
	ScopeValue string
}

// hasWorkspaceScope reports a workspace-wide grant at the required level.
// The owner role counts as an implicit workspace editor grant: owners have
// full control without explicit grant rows.
func (s Snapshot) hasWorkspaceScope(required Level) bool {
	if IsOwner(s.Role) {
		return true
	}
	for _, g := range s.Grants {
		if g.Type == ScopeWorkspace && g.Level.Satisfies(required) {
			return true
		}
	}
	return false
}

func (s Snapshot) hasCampaignScope(campaignID uint, required Level) bool {
	for _, g := range s.Grants {
		if g.Type == ScopeCampaign && g.CampaignID == campaignID && g.Level.Satisfies(required) {
			return true
		}
	}
	return false
}

func (s Snapshot) hasCalendarScope(required Level) bool {
	for _, g := range s.Grants {
		if g.Type == ScopeCalendar && g.Level.Satisfies(required) {
			return true
		}
	}
	return false
}

// CanAccessWorkspace reports viewer-or-above workspace access.
func (s Snapshot) CanAccessWorkspace() bool {
	return s.hasWorkspaceScope(LevelViewer)
}

// CanEditWorkspace reports editor workspace access.
func (s Snapshot) CanEditWorkspace() bool {
	return s.hasWorkspaceScope(LevelEditor)
}

// CanAccessCampaign applies the uniform resolution order: workspace scope
// short-circuits, then the narrower campaign grant, else deny.
func (s Snapshot) CanAccessCampaign(campaignID uint) bool {
	if s.hasWorkspaceScope(LevelViewer) {
		return true
	}
	return s.hasCampaignScope(campaignID, LevelViewer)
}

// CanEditCampaign is the editor-strength variant of CanAccessCampaign.
func (s Snapshot) CanEditCampaign(campaignID uint) bool {
	if s.hasWorkspaceScope(LevelEditor) {
		return true
	}
	return s.hasCampaignScope(campaignID, LevelEditor)
}

// CanAccessCalendar reports viewer-or-above calendar access.
func (s Snapshot) CanAccessCalendar() bool {
	if s.hasWorkspaceScope(LevelViewer) {
		return true
	}
	return s.hasCalendarScope(LevelViewer)
}

// CanEditCalendar reports editor calendar access.
func (s Snapshot) CanEditCalendar() bool {
	if s.hasWorkspaceScope(LevelEditor) {
		return true
	}
	return s.hasCalendarScope(LevelEditor)
}

// CanManageTeam reports whether the user may manage memberships, scope
// grants and billing. Owner-only.
func (s Snapshot) CanManageTeam() bool {
	return IsOwner(s.Role)
}

// FilterAccessibleCampaigns returns the subset of campaign ids the user may
// view. An empty result is valid output, not an error.
func (s Snapshot) FilterAccessibleCampaigns(campaignIDs []uint) []uint {
	accessible := make([]uint, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		if s.CanAccessCampaign(id) {
			accessible = append(accessible, id)
		}
	}
	return accessible
}
