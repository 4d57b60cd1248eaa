package plan

import "testing"

func TestNormalizeTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{in: "free", want: TierFree},
		{in: "starter", want: TierStarter},
		{in: "pro", want: TierPro},
		{in: "agency", want: TierAgency},
		{in: "AGENCY", want: TierAgency},
		{in: " pro ", want: TierPro},
		{in: "enterprise", want: TierFree},
		{in: "", want: TierFree},
	}

	for _, tt := range tests {
		if got := NormalizeTier(tt.in); got != tt.want {
			t.Fatalf("NormalizeTier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTierRank(t *testing.T) {
	if TierRank(TierFree) >= TierRank(TierStarter) {
		t.Fatalf("expected starter to outrank free")
	}
	if TierRank(TierStarter) >= TierRank(TierPro) {
		t.Fatalf("expected pro to outrank starter")
	}
	if TierRank(TierPro) >= TierRank(TierAgency) {
		t.Fatalf("expected agency to outrank pro")
	}
}

func TestGetFallsBackToFree(t *testing.T) {
	def := Get(Tier("no_such_tier"))
	if def.Tier != TierFree {
		t.Fatalf("expected free definition for unknown tier, got %q", def.Tier)
	}
}

func TestCatalogLimits(t *testing.T) {
	tests := []struct {
		tier      Tier
		campaigns int
		creators  int
		seats     int
	}{
		{TierFree, 1, 5, 1},
		{TierStarter, 5, 25, 3},
		{TierPro, 20, 100, 5},
		{TierAgency, Unlimited, Unlimited, 10},
	}

	for _, tt := range tests {
		def := Get(tt.tier)
		if def.MaxActiveCampaigns != tt.campaigns {
			t.Fatalf("%s: MaxActiveCampaigns = %d, want %d", tt.tier, def.MaxActiveCampaigns, tt.campaigns)
		}
		if def.MaxCreatorsPerCampaign != tt.creators {
			t.Fatalf("%s: MaxCreatorsPerCampaign = %d, want %d", tt.tier, def.MaxCreatorsPerCampaign, tt.creators)
		}
		if def.IncludedSeats != tt.seats {
			t.Fatalf("%s: IncludedSeats = %d, want %d", tt.tier, def.IncludedSeats, tt.seats)
		}
	}
}

func TestFeaturesAccumulateUpward(t *testing.T) {
	// Every feature available on a tier stays available on higher tiers.
	tiers := []Tier{TierFree, TierStarter, TierPro, TierAgency}
	for i := 0; i < len(tiers)-1; i++ {
		lower := Features(tiers[i])
		higher := Features(tiers[i+1])
		for f := range lower {
			if !higher[f] {
				t.Fatalf("feature %q available on %s but missing on %s", f, tiers[i], tiers[i+1])
			}
		}
	}
}

func TestHasFeatureBooleans(t *testing.T) {
	if HasFeature(TierFree, FeatureAPIAccess) {
		t.Fatalf("free tier should not have api access")
	}
	if !HasFeature(TierPro, FeatureAPIAccess) {
		t.Fatalf("pro tier should have api access")
	}
	if HasFeature(TierPro, FeatureWhiteLabel) {
		t.Fatalf("pro tier should not have white label")
	}
	if !HasFeature(TierAgency, FeatureWhiteLabel) {
		t.Fatalf("agency tier should have white label")
	}
}

func TestHasFeatureUnknownTier(t *testing.T) {
	if !HasFeature(Tier("bogus"), FeatureContentCalendar) {
		t.Fatalf("unknown tier should resolve to the free feature set")
	}
	if HasFeature(Tier("bogus"), FeatureAdvancedAnalytics) {
		t.Fatalf("unknown tier must not gain paid features")
	}
}
