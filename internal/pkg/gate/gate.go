package gate

import (
	"errors"
	"fmt"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/access"
	"github.com/campaignfox/CampaignFox/internal/pkg/entitlements"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
)

// Reason explains a gate decision to the presentation layer so it can pick
// the right prompt (upgrade CTA vs. "ask an owner") without the engine
// knowing anything about UI.
type Reason string

const (
	ReasonAllowed       Reason = "ALLOWED"
	ReasonNoAccess      Reason = "NO_ACCESS"
	ReasonLimitReached  Reason = "LIMIT_REACHED"
	ReasonFeatureLocked Reason = "FEATURE_LOCKED"
)

// RequestType selects the gate check to perform.
type RequestType string

const (
	RequestCampaignAccess RequestType = "campaign_access"
	RequestCampaignEdit   RequestType = "campaign_edit"
	RequestFeature        RequestType = "feature"
	RequestQuota          RequestType = "quota"
	RequestTeamManagement RequestType = "team_management"
)

// Request is the tagged union consumers hand to Evaluate. Only the fields
// belonging to the selected Type are read.
type Request struct {
	Type         RequestType           `json:"type"`
	CampaignID   uint                  `json:"campaign_id,omitempty"`
	Feature      plan.Feature          `json:"feature,omitempty"`
	Resource     entitlements.Resource `json:"resource,omitempty"`
	CurrentCount int                   `json:"current_count,omitempty"`
}

// Decision is the gate's tri-state answer. Limit and Remaining are only
// populated for quota requests.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Reason    Reason `json:"reason"`
	Message   string `json:"message"`
	Limit     *int   `json:"limit,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

// ErrInvalidRequest marks a malformed request shape. It is the only error
// Evaluate returns; expected "no grant" conditions are decisions, not
// errors.
var ErrInvalidRequest = errors.New("invalid gate request")

func deny(reason Reason, message string) Decision {
	return Decision{Allowed: false, Reason: reason, Message: message}
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed, Message: "allowed"}
}

// Evaluate combines the access resolver and the entitlement resolver into
// one decision. Access is checked first: a caller without scope access is
// denied with NO_ACCESS regardless of plan state, so plan and quota details
// of a workspace are never disclosed to users who cannot access it.
func Evaluate(snap access.Snapshot, sub *models.Subscription, req Request) (Decision, error) {
	switch req.Type {
	case RequestCampaignAccess:
		if req.CampaignID == 0 {
			return Decision{}, fmt.Errorf("%w: campaign_access requires campaign_id", ErrInvalidRequest)
		}
		if !snap.CanAccessCampaign(req.CampaignID) {
			return deny(ReasonNoAccess, "you do not have access to this campaign"), nil
		}
		return allow(), nil

	case RequestCampaignEdit:
		if req.CampaignID == 0 {
			return Decision{}, fmt.Errorf("%w: campaign_edit requires campaign_id", ErrInvalidRequest)
		}
		if !snap.CanEditCampaign(req.CampaignID) {
			return deny(ReasonNoAccess, "you do not have edit access to this campaign"), nil
		}
		return allow(), nil

	case RequestFeature:
		if req.Feature == "" {
			return Decision{}, fmt.Errorf("%w: feature request requires feature", ErrInvalidRequest)
		}
		if !snap.CanAccessWorkspace() {
			return deny(ReasonNoAccess, "you do not have access to this workspace"), nil
		}
		if !entitlements.CanAccessFeature(sub, req.Feature) {
			return deny(ReasonFeatureLocked, fmt.Sprintf("the %s feature is not included in your plan", req.Feature)), nil
		}
		return allow(), nil

	case RequestQuota:
		if req.Resource == "" {
			return Decision{}, fmt.Errorf("%w: quota request requires resource", ErrInvalidRequest)
		}
		if !entitlements.KnownResource(req.Resource) {
			return Decision{}, fmt.Errorf("%w: unknown quota resource %q", ErrInvalidRequest, req.Resource)
		}
		if req.CurrentCount < 0 {
			return Decision{}, fmt.Errorf("%w: current_count must not be negative", ErrInvalidRequest)
		}
		// Consuming quota is a mutation: team seats need team management
		// rights, creator slots need edit access to their campaign, and
		// everything else needs workspace edit scope.
		switch {
		case req.Resource == entitlements.ResourceTeamMembers:
			if !snap.CanManageTeam() {
				return deny(ReasonNoAccess, "only the workspace owner can manage the team"), nil
			}
		case req.Resource == entitlements.ResourceCreatorsPerCampaign && req.CampaignID != 0:
			if !snap.CanEditCampaign(req.CampaignID) {
				return deny(ReasonNoAccess, "you do not have edit access to this campaign"), nil
			}
		default:
			if !snap.CanEditWorkspace() {
				return deny(ReasonNoAccess, "you do not have edit access to this workspace"), nil
			}
		}
		limit := entitlements.GetLimit(sub, req.Resource)
		remaining := entitlements.RemainingQuota(sub, req.Resource, req.CurrentCount)
		if !entitlements.IsWithinLimit(sub, req.Resource, req.CurrentCount) {
			d := deny(ReasonLimitReached, fmt.Sprintf("your plan allows up to %d %s", limit, req.Resource))
			d.Limit = &limit
			d.Remaining = &remaining
			return d, nil
		}
		d := allow()
		d.Limit = &limit
		d.Remaining = &remaining
		return d, nil

	case RequestTeamManagement:
		if !snap.CanManageTeam() {
			return deny(ReasonNoAccess, "only the workspace owner can manage the team"), nil
		}
		return allow(), nil

	default:
		return Decision{}, fmt.Errorf("%w: unknown request type %q", ErrInvalidRequest, req.Type)
	}
}
