package entitlements

import (
	"time"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
)

// Resource is a countable quota dimension.
type Resource string

const (
	ResourceCampaigns           Resource = "campaigns"
	ResourceCreatorsPerCampaign Resource = "creators_per_campaign"
	ResourceTeamMembers         Resource = "team_members"
)

// Limits is the resolved set of numeric caps for a workspace.
// plan.Unlimited (-1) means no cap.
type Limits struct {
	Campaigns           int `json:"campaigns"`
	CreatorsPerCampaign int `json:"creators_per_campaign"`
	TeamMembers         int `json:"team_members"`
}

// All functions in this package are pure over the subscription snapshot the
// caller already fetched. A nil subscription is treated identically to a
// free plan, never as an error.

// HasAgencyBypass reports whether the workspace is an internal operator
// account. Bypass is absolute: it short-circuits before any tier or limit
// lookup in every entitlement function.
func HasAgencyBypass(sub *models.Subscription) bool {
	if sub == nil {
		return false
	}
	return sub.AgencyRole == models.AgencyRoleAgency || sub.AgencyRole == models.AgencyRoleSuperAgency
}

// isEntitlingStatus lists the statuses that keep the paid tier in effect.
// past_due stays entitling: the grace period warns, it does not revoke.
func isEntitlingStatus(status string) bool {
	switch status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing, models.SubscriptionStatusPastDue:
		return true
	default:
		return false
	}
}

// EffectiveTier resolves the tier entitlements are computed from. Canceled
// and expired subscriptions keep their paid tier until the paid period
// lapses; everything else falls back to free.
func EffectiveTier(sub *models.Subscription) plan.Tier {
	if sub == nil {
		return plan.TierFree
	}
	if isEntitlingStatus(sub.Status) {
		return plan.NormalizeTier(sub.Tier)
	}
	if periodStillPaid(sub) {
		return plan.NormalizeTier(sub.Tier)
	}
	return plan.TierFree
}

func periodStillPaid(sub *models.Subscription) bool {
	switch sub.Status {
	case models.SubscriptionStatusCanceled, models.SubscriptionStatusExpired:
		return sub.CurrentPeriodEndAt != nil && sub.CurrentPeriodEndAt.After(time.Now())
	default:
		return false
	}
}

// HasPaidAccess reports whether the workspace currently holds paid
// entitlement. past_due keeps it (grace), canceled/expired keep it only
// until current_period_end_at has passed.
func HasPaidAccess(sub *models.Subscription) bool {
	if sub == nil {
		return false
	}
	switch sub.Status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing, models.SubscriptionStatusPastDue:
		return true
	default:
		return periodStillPaid(sub)
	}
}

// IsInGracePeriod reports a billing problem that should warn the user
// without hard-blocking. Pairs with HasPaidAccess == true for past_due.
func IsInGracePeriod(sub *models.Subscription) bool {
	return sub != nil && sub.Status == models.SubscriptionStatusPastDue
}

// limitSource is one step in the limit resolution chain. The chain is
// ordered and tried in sequence so the precedence (subscription override,
// then catalog, then free default) is testable as its own unit.
type limitSource func(sub *models.Subscription, def plan.Definition) (int, bool)

func seatOverride(sub *models.Subscription, def plan.Definition) (int, bool) {
	// Seats are a purchased add-on independent of tier base limits.
	if sub == nil || sub.ExtraSeats <= 0 {
		return 0, false
	}
	if def.IncludedSeats == plan.Unlimited {
		return plan.Unlimited, true
	}
	return def.IncludedSeats + sub.ExtraSeats, true
}

func catalogSeats(_ *models.Subscription, def plan.Definition) (int, bool) {
	return def.IncludedSeats, true
}

func catalogCampaigns(_ *models.Subscription, def plan.Definition) (int, bool) {
	return def.MaxActiveCampaigns, true
}

func catalogCreators(_ *models.Subscription, def plan.Definition) (int, bool) {
	return def.MaxCreatorsPerCampaign, true
}

func freeDefault(resource Resource) limitSource {
	return func(_ *models.Subscription, _ plan.Definition) (int, bool) {
		free := plan.Get(plan.TierFree)
		switch resource {
		case ResourceCreatorsPerCampaign:
			return free.MaxCreatorsPerCampaign, true
		case ResourceTeamMembers:
			return free.IncludedSeats, true
		default:
			return free.MaxActiveCampaigns, true
		}
	}
}

var limitChains = map[Resource][]limitSource{
	ResourceCampaigns:           {catalogCampaigns, freeDefault(ResourceCampaigns)},
	ResourceCreatorsPerCampaign: {catalogCreators, freeDefault(ResourceCreatorsPerCampaign)},
	ResourceTeamMembers:         {seatOverride, catalogSeats, freeDefault(ResourceTeamMembers)},
}

// KnownResource reports whether a limit chain exists for the resource.
// Callers use it to reject quota checks against resource names nothing
// in the catalog defines a cap for.
func KnownResource(resource Resource) bool {
	_, ok := limitChains[resource]
	return ok
}

func resolveLimit(sub *models.Subscription, resource Resource) int {
	def := plan.Get(EffectiveTier(sub))
	for _, source := range limitChains[resource] {
		if limit, ok := source(sub, def); ok {
			return limit
		}
	}
	// Unknown resource: no cap was ever defined for it, deny-by-zero.
	return 0
}

// GetLimit returns the resolved cap for a resource, plan.Unlimited for
// no cap. Bypass workspaces are always unlimited.
func GetLimit(sub *models.Subscription, resource Resource) int {
	if HasAgencyBypass(sub) {
		return plan.Unlimited
	}
	return resolveLimit(sub, resource)
}

// EffectiveLimits resolves all caps at once for display purposes.
func EffectiveLimits(sub *models.Subscription) Limits {
	return Limits{
		Campaigns:           GetLimit(sub, ResourceCampaigns),
		CreatorsPerCampaign: GetLimit(sub, ResourceCreatorsPerCampaign),
		TeamMembers:         GetLimit(sub, ResourceTeamMembers),
	}
}

// IsWithinLimit reports whether one more item of the resource may be
// created given the current count. The boundary is strict less-than:
// a limit of N permits at most N existing items, so callers must check
// before creating, not after.
func IsWithinLimit(sub *models.Subscription, resource Resource, currentCount int) bool {
	if HasAgencyBypass(sub) {
		return true
	}
	limit := resolveLimit(sub, resource)
	if limit == plan.Unlimited {
		return true
	}
	return currentCount < limit
}

// RemainingQuota returns how many more items may be created, or
// plan.Unlimited when there is no cap. Never negative.
func RemainingQuota(sub *models.Subscription, resource Resource, currentCount int) int {
	limit := GetLimit(sub, resource)
	if limit == plan.Unlimited {
		return plan.Unlimited
	}
	remaining := limit - currentCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAccessFeature reports whether the workspace may use a plan-gated
// feature. Bypass first, then the catalog for the effective tier; a nil
// subscription resolves against the free tier's set.
func CanAccessFeature(sub *models.Subscription, feature plan.Feature) bool {
	if HasAgencyBypass(sub) {
		return true
	}
	return plan.HasFeature(EffectiveTier(sub), feature)
}
