package entitlements

import (
	"testing"
	"time"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
)

func activeSub(tier string) *models.Subscription {
	return &models.Subscription{
		WorkspaceID: 1,
		Tier:        tier,
		Status:      models.SubscriptionStatusActive,
	}
}

func TestNilSubscriptionIsFree(t *testing.T) {
	if got := EffectiveTier(nil); got != plan.TierFree {
		t.Fatalf("EffectiveTier(nil) = %q, want free", got)
	}
	if HasPaidAccess(nil) {
		t.Fatalf("nil subscription must not have paid access")
	}
	if HasAgencyBypass(nil) {
		t.Fatalf("nil subscription must not have bypass")
	}
	if got := GetLimit(nil, ResourceCampaigns); got != 1 {
		t.Fatalf("nil subscription campaign limit = %d, want 1", got)
	}
	if CanAccessFeature(nil, plan.FeatureAPIAccess) {
		t.Fatalf("nil subscription must not have api access")
	}
	if !CanAccessFeature(nil, plan.FeatureContentCalendar) {
		t.Fatalf("nil subscription must keep free features")
	}
}

func TestEffectiveTierByStatus(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		want plan.Tier
	}{
		{name: "active keeps tier", sub: &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusActive}, want: plan.TierPro},
		{name: "trialing keeps tier", sub: &models.Subscription{Tier: "starter", Status: models.SubscriptionStatusTrialing}, want: plan.TierStarter},
		{name: "past_due keeps tier", sub: &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusPastDue}, want: plan.TierPro},
		{name: "canceled keeps tier until period end", sub: &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusCanceled, CurrentPeriodEndAt: &future}, want: plan.TierPro},
		{name: "canceled after period end is free", sub: &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusCanceled, CurrentPeriodEndAt: &past}, want: plan.TierFree},
		{name: "canceled without period end is free", sub: &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusCanceled}, want: plan.TierFree},
		{name: "expired after period end is free", sub: &models.Subscription{Tier: "agency", Status: models.SubscriptionStatusExpired, CurrentPeriodEndAt: &past}, want: plan.TierFree},
		{name: "free status is free", sub: &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusFree}, want: plan.TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveTier(tt.sub); got != tt.want {
				t.Fatalf("EffectiveTier = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPastDueGracePeriod(t *testing.T) {
	sub := &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusPastDue}

	if !HasPaidAccess(sub) {
		t.Fatalf("past_due must keep paid access")
	}
	if !IsInGracePeriod(sub) {
		t.Fatalf("past_due must report the grace period")
	}
	if !IsWithinLimit(sub, ResourceCampaigns, 19) {
		t.Fatalf("past_due pro must keep its 20 campaign limit")
	}

	if IsInGracePeriod(activeSub("pro")) {
		t.Fatalf("active must not report a grace period")
	}
}

func TestStrictLimitBoundary(t *testing.T) {
	sub := activeSub("starter") // 5 campaigns

	if !IsWithinLimit(sub, ResourceCampaigns, 4) {
		t.Fatalf("count 4 of limit 5 must be within")
	}
	if IsWithinLimit(sub, ResourceCampaigns, 5) {
		t.Fatalf("count 5 of limit 5 must be at the cap")
	}
	if IsWithinLimit(sub, ResourceCampaigns, 6) {
		t.Fatalf("count above the cap must be denied")
	}
}

func TestUnlimitedSentinel(t *testing.T) {
	sub := activeSub("agency")

	if got := GetLimit(sub, ResourceCampaigns); got != plan.Unlimited {
		t.Fatalf("agency campaign limit = %d, want unlimited", got)
	}
	if !IsWithinLimit(sub, ResourceCampaigns, 10_000_000) {
		t.Fatalf("unlimited must admit any count")
	}
	if got := RemainingQuota(sub, ResourceCampaigns, 10_000_000); got != plan.Unlimited {
		t.Fatalf("remaining on unlimited = %d, want unlimited sentinel", got)
	}
}

func TestKnownResource(t *testing.T) {
	for _, r := range []Resource{ResourceCampaigns, ResourceCreatorsPerCampaign, ResourceTeamMembers} {
		if !KnownResource(r) {
			t.Fatalf("%s must be a known resource", r)
		}
	}
	if KnownResource(Resource("bogus")) {
		t.Fatalf("undefined resource names must not resolve to a cap")
	}
}

func TestSeatOverrideChain(t *testing.T) {
	sub := activeSub("pro") // 5 included seats
	sub.ExtraSeats = 2

	if got := GetLimit(sub, ResourceTeamMembers); got != 7 {
		t.Fatalf("pro with 2 extra seats = %d, want 7", got)
	}

	// The override only applies to seats.
	if got := GetLimit(sub, ResourceCampaigns); got != 20 {
		t.Fatalf("extra seats must not affect campaign limit, got %d", got)
	}

	// Seat add-ons stack on top of any tier's included seats.
	agency := activeSub("agency")
	agency.ExtraSeats = 3
	if got := GetLimit(agency, ResourceTeamMembers); got != 13 {
		t.Fatalf("agency with 3 extra seats = %d, want 13", got)
	}

	noExtra := activeSub("pro")
	if got := GetLimit(noExtra, ResourceTeamMembers); got != 5 {
		t.Fatalf("pro seats without override = %d, want 5", got)
	}
}

func TestAgencyBypassIsAbsolute(t *testing.T) {
	// Bypass even on a free, lapsed subscription.
	sub := &models.Subscription{
		Tier:       "free",
		Status:     models.SubscriptionStatusExpired,
		AgencyRole: models.AgencyRoleAgency,
	}

	if !HasAgencyBypass(sub) {
		t.Fatalf("agency role must report bypass")
	}
	if !IsWithinLimit(sub, ResourceCampaigns, 10_000_000) {
		t.Fatalf("bypass must admit any count")
	}
	if got := GetLimit(sub, ResourceTeamMembers); got != plan.Unlimited {
		t.Fatalf("bypass limits must be unlimited, got %d", got)
	}
	if !CanAccessFeature(sub, plan.FeatureAPIAccess) {
		t.Fatalf("bypass must unlock api access regardless of tier")
	}
	if !CanAccessFeature(sub, plan.FeatureWhiteLabel) {
		t.Fatalf("bypass must unlock white label regardless of tier")
	}

	super := &models.Subscription{Status: models.SubscriptionStatusFree, AgencyRole: models.AgencyRoleSuperAgency}
	if !HasAgencyBypass(super) {
		t.Fatalf("super_agency must report bypass")
	}
	none := &models.Subscription{Status: models.SubscriptionStatusActive, Tier: "pro", AgencyRole: models.AgencyRoleNone}
	if HasAgencyBypass(none) {
		t.Fatalf("agency_role none must not bypass")
	}
}

func TestRemainingQuotaNeverNegative(t *testing.T) {
	sub := activeSub("free") // 1 campaign

	if got := RemainingQuota(sub, ResourceCampaigns, 0); got != 1 {
		t.Fatalf("remaining = %d, want 1", got)
	}
	if got := RemainingQuota(sub, ResourceCampaigns, 1); got != 0 {
		t.Fatalf("remaining at cap = %d, want 0", got)
	}
	// Overage (e.g. after a downgrade) clamps to zero.
	if got := RemainingQuota(sub, ResourceCampaigns, 5); got != 0 {
		t.Fatalf("remaining above cap = %d, want 0", got)
	}
}

func TestDowngradeKeepsExistingButBlocksNew(t *testing.T) {
	sub := activeSub("free")

	// 5 campaigns exist from a former pro plan. Nothing is deleted, but
	// creating a sixth is blocked.
	if IsWithinLimit(sub, ResourceCampaigns, 5) {
		t.Fatalf("free plan must not admit a new campaign at count 5")
	}
	if got := RemainingQuota(sub, ResourceCampaigns, 5); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

func TestEffectiveLimits(t *testing.T) {
	got := EffectiveLimits(activeSub("starter"))
	want := Limits{Campaigns: 5, CreatorsPerCampaign: 25, TeamMembers: 3}
	if got != want {
		t.Fatalf("EffectiveLimits = %+v, want %+v", got, want)
	}
}

func TestFeatureAccessByTier(t *testing.T) {
	if CanAccessFeature(activeSub("starter"), plan.FeatureAPIAccess) {
		t.Fatalf("starter must not have api access")
	}
	if !CanAccessFeature(activeSub("pro"), plan.FeatureAPIAccess) {
		t.Fatalf("pro must have api access")
	}
	if !CanAccessFeature(activeSub("pro"), plan.FeatureCreatorCRM) {
		t.Fatalf("pro must inherit starter features")
	}

	// A lapsed pro subscription resolves features against free.
	past := time.Now().Add(-time.Hour)
	lapsed := &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusCanceled, CurrentPeriodEndAt: &past}
	if CanAccessFeature(lapsed, plan.FeatureAdvancedAnalytics) {
		t.Fatalf("lapsed subscription must lose paid features")
	}
}
