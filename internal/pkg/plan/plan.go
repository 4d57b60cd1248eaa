package plan

import "strings"

// Tier is an internal subscription tier. The catalog below is the single
// source of truth for what a tier is worth; it is immutable at runtime.
type Tier string

const (
	TierFree    Tier = "free"
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
	TierAgency  Tier = "agency"
)

// Unlimited is the sentinel used in limit fields to mean "no cap".
const Unlimited = -1

// Feature is a plan-gated product capability.
type Feature string

const (
	FeatureAPIAccess         Feature = "api_access"
	FeatureWhiteLabel        Feature = "white_label"
	FeatureAdvancedAnalytics Feature = "advanced_analytics"
	FeatureContentCalendar   Feature = "content_calendar"
	FeatureCreatorCRM        Feature = "creator_crm"
	FeatureBulkMessaging     Feature = "bulk_messaging"
	FeatureCustomReports     Feature = "custom_reports"
	FeaturePrioritySupport   Feature = "priority_support"
)

// Definition is one static catalog row. Limit fields use Unlimited (-1)
// for "no cap".
type Definition struct {
	Tier                   Tier
	MaxActiveCampaigns     int
	MaxCreatorsPerCampaign int
	IncludedSeats          int
	APIAccess              bool
	WhiteLabel             bool
}

var catalog = map[Tier]Definition{
	TierFree: {
		Tier:                   TierFree,
		MaxActiveCampaigns:     1,
		MaxCreatorsPerCampaign: 5,
		IncludedSeats:          1,
	},
	TierStarter: {
		Tier:                   TierStarter,
		MaxActiveCampaigns:     5,
		MaxCreatorsPerCampaign: 25,
		IncludedSeats:          3,
	},
	TierPro: {
		Tier:                   TierPro,
		MaxActiveCampaigns:     20,
		MaxCreatorsPerCampaign: 100,
		IncludedSeats:          5,
		APIAccess:              true,
	},
	TierAgency: {
		Tier:                   TierAgency,
		MaxActiveCampaigns:     Unlimited,
		MaxCreatorsPerCampaign: Unlimited,
		IncludedSeats:          10,
		APIAccess:              true,
		WhiteLabel:             true,
	},
}

// featureSets lists non-boolean-gated features per tier. Each tier includes
// the sets of the tiers below it; the helper accumulates by rank.
var featureSets = map[Tier][]Feature{
	TierFree:    {FeatureContentCalendar},
	TierStarter: {FeatureCreatorCRM},
	TierPro:     {FeatureAdvancedAnalytics, FeatureBulkMessaging, FeatureCustomReports},
	TierAgency:  {FeaturePrioritySupport},
}

// NormalizeTier maps arbitrary input to a known tier, defaulting to free.
func NormalizeTier(tier string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(tier))) {
	case TierStarter:
		return TierStarter
	case TierPro:
		return TierPro
	case TierAgency:
		return TierAgency
	default:
		return TierFree
	}
}

// TierRank orders tiers for "best plan wins" reconciliation.
func TierRank(tier Tier) int {
	switch tier {
	case TierAgency:
		return 3
	case TierPro:
		return 2
	case TierStarter:
		return 1
	default:
		return 0
	}
}

// Get returns the catalog definition for a tier. Unknown tiers fall back to
// the free definition so catalog drift can never panic a gate check.
func Get(tier Tier) Definition {
	if def, ok := catalog[tier]; ok {
		return def
	}
	return catalog[TierFree]
}

// Features returns the full feature set for a tier, including everything
// granted by lower tiers.
func Features(tier Tier) map[Feature]bool {
	rank := TierRank(NormalizeTier(string(tier)))
	out := make(map[Feature]bool)
	for t, features := range featureSets {
		if TierRank(t) > rank {
			continue
		}
		for _, f := range features {
			out[f] = true
		}
	}
	return out
}

// HasFeature reports whether a tier's feature set contains the feature.
// The boolean-gated features (api_access, white_label) are read off the
// catalog definition instead of the sets.
func HasFeature(tier Tier, feature Feature) bool {
	def := Get(NormalizeTier(string(tier)))
	switch feature {
	case FeatureAPIAccess:
		return def.APIAccess
	case FeatureWhiteLabel:
		return def.WhiteLabel
	}
	return Features(def.Tier)[feature]
}
