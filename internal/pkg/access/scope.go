package access

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopeType is the resource class a grant applies to.
type ScopeType string

const (
	ScopeWorkspace ScopeType = "workspace"
	ScopeCampaign  ScopeType = "campaign"
	ScopeCalendar  ScopeType = "calendar"
)

// Level is the strength of a grant. Editor implies viewer, never the
// other way around.
type Level string

const (
	LevelViewer Level = "viewer"
	LevelEditor Level = "editor"
)

// Satisfies reports whether a held level covers a required level.
func (l Level) Satisfies(required Level) bool {
	if l == required {
		return true
	}
	return l == LevelEditor && required == LevelViewer
}

// ScopeRef is the parsed form of a persisted scope grant. CampaignID is
// only set for campaign scope. Business logic operates exclusively on
// ScopeRef; the string encoding exists only at the persistence boundary.
type ScopeRef struct {
	Type       ScopeType
	CampaignID uint
	Level      Level
}

// ParseScopeValue decodes a stored (scope_type, scope_value) pair. A
// malformed value of any kind (unknown type, bad level, wrong delimiter,
// non-numeric campaign id) returns ok=false and must be treated as
// "no grant" by the caller, never as an error.
func ParseScopeValue(scopeType, scopeValue string) (ScopeRef, bool) {
	value := strings.TrimSpace(scopeValue)

	switch ScopeType(strings.ToLower(strings.TrimSpace(scopeType))) {
	case ScopeWorkspace:
		level, ok := parseLevel(value)
		if !ok {
			return ScopeRef{}, false
		}
		return ScopeRef{Type: ScopeWorkspace, Level: level}, true

	case ScopeCalendar:
		level, ok := parseLevel(value)
		if !ok {
			return ScopeRef{}, false
		}
		return ScopeRef{Type: ScopeCalendar, Level: level}, true

	case ScopeCampaign:
		id, level, ok := parseCampaignValue(value)
		if !ok {
			return ScopeRef{}, false
		}
		return ScopeRef{Type: ScopeCampaign, CampaignID: id, Level: level}, true

	default:
		return ScopeRef{}, false
	}
}

// EncodeScopeValue produces the persisted (scope_type, scope_value) pair
// for a ScopeRef. It is the inverse of ParseScopeValue for valid refs.
func EncodeScopeValue(ref ScopeRef) (scopeType, scopeValue string) {
	if ref.Type == ScopeCampaign {
		return string(ScopeCampaign), fmt.Sprintf("%d:%s", ref.CampaignID, ref.Level)
	}
	return string(ref.Type), string(ref.Level)
}

func parseLevel(value string) (Level, bool) {
	switch Level(value) {
	case LevelViewer:
		return LevelViewer, true
	case LevelEditor:
		return LevelEditor, true
	default:
		return "", false
	}
}

func parseCampaignValue(value string) (uint, Level, bool) {
	idPart, levelPart, found := strings.Cut(value, ":")
	if !found {
		return 0, "", false
	}
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil || id == 0 {
		return 0, "", false
	}
	level, ok := parseLevel(levelPart)
	if !ok {
		return 0, "", false
	}
	return uint(id), level, true
}
