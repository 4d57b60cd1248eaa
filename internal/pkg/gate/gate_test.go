package gate

import (
	"errors"
	"testing"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/access"
	"github.com/campaignfox/CampaignFox/internal/pkg/entitlements"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
)

func ownerSnap() access.Snapshot {
	return access.NewSnapshot("brand_owner", nil)
}

func outsiderSnap() access.Snapshot {
	return access.NewSnapshot("", nil)
}

func proSub() *models.Subscription {
	return &models.Subscription{Tier: "pro", Status: models.SubscriptionStatusActive}
}

func TestEvaluateCampaignAccess(t *testing.T) {
	viewer := access.NewSnapshot("brand_member", []access.RawGrant{
		{ScopeType: "campaign", ScopeValue: "3:viewer"},
	})

	d, err := Evaluate(viewer, proSub(), Request{Type: RequestCampaignAccess, CampaignID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed || d.Reason != ReasonAllowed {
		t.Fatalf("expected allow, got %+v", d)
	}

	d, err = Evaluate(viewer, proSub(), Request{Type: RequestCampaignEdit, CampaignID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNoAccess {
		t.Fatalf("viewer edit should be NO_ACCESS, got %+v", d)
	}
}

func TestEvaluateAccessPrecedesEntitlement(t *testing.T) {
	// An outsider probing a workspace at its campaign cap must see
	// NO_ACCESS, not LIMIT_REACHED. Plan state is never disclosed to
	// users without access.
	free := &models.Subscription{Tier: "free", Status: models.SubscriptionStatusFree}

	d, err := Evaluate(outsiderSnap(), free, Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCampaigns,
		CurrentCount: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Reason != ReasonNoAccess {
		t.Fatalf("expected NO_ACCESS before any entitlement detail, got %+v", d)
	}
	if d.Limit != nil || d.Remaining != nil {
		t.Fatalf("denied outsider must not receive limit details: %+v", d)
	}

	d, err = Evaluate(outsiderSnap(), free, Request{Type: RequestFeature, Feature: plan.FeatureAPIAccess})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Reason != ReasonNoAccess {
		t.Fatalf("feature check by outsider must be NO_ACCESS, got %+v", d)
	}
}

func TestEvaluateQuota(t *testing.T) {
	sub := &models.Subscription{Tier: "starter", Status: models.SubscriptionStatusActive}

	d, err := Evaluate(ownerSnap(), sub, Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCampaigns,
		CurrentCount: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("count 4 of 5 should be allowed, got %+v", d)
	}
	if d.Limit == nil || *d.Limit != 5 {
		t.Fatalf("expected limit 5 on decision, got %+v", d)
	}
	if d.Remaining == nil || *d.Remaining != 1 {
		t.Fatalf("expected remaining 1 on decision, got %+v", d)
	}

	d, err = Evaluate(ownerSnap(), sub, Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCampaigns,
		CurrentCount: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonLimitReached {
		t.Fatalf("count 5 of 5 should be LIMIT_REACHED, got %+v", d)
	}
	if d.Remaining == nil || *d.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %+v", d)
	}
}

func TestEvaluateQuotaCampaignScopedEditor(t *testing.T) {
	// A member whose only edit right is a campaign grant may still fill
	// creator slots on that campaign.
	editor := access.NewSnapshot("agency_ops", []access.RawGrant{
		{ScopeType: "campaign", ScopeValue: "8:editor"},
	})

	d, err := Evaluate(editor, proSub(), Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCreatorsPerCampaign,
		CampaignID:   8,
		CurrentCount: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("campaign editor should pass creator quota access, got %+v", d)
	}

	d, err = Evaluate(editor, proSub(), Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCreatorsPerCampaign,
		CampaignID:   9,
		CurrentCount: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNoAccess {
		t.Fatalf("grant must not cover another campaign, got %+v", d)
	}
}

func TestEvaluateTeamQuotaNeedsOwner(t *testing.T) {
	editor := access.NewSnapshot("agency_admin", []access.RawGrant{
		{ScopeType: "workspace", ScopeValue: "editor"},
	})

	d, err := Evaluate(editor, proSub(), Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceTeamMembers,
		CurrentCount: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNoAccess {
		t.Fatalf("workspace editor must not consume team seats, got %+v", d)
	}

	d, err = Evaluate(editor, proSub(), Request{Type: RequestTeamManagement})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatalf("team management is owner-only, got %+v", d)
	}
}

func TestEvaluateFeature(t *testing.T) {
	starter := &models.Subscription{Tier: "starter", Status: models.SubscriptionStatusActive}

	d, err := Evaluate(ownerSnap(), starter, Request{Type: RequestFeature, Feature: plan.FeatureAPIAccess})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonFeatureLocked {
		t.Fatalf("api access on starter should be FEATURE_LOCKED, got %+v", d)
	}

	d, err = Evaluate(ownerSnap(), proSub(), Request{Type: RequestFeature, Feature: plan.FeatureAPIAccess})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("api access on pro should be allowed, got %+v", d)
	}
}

func TestEvaluateAgencyBypassOnFreeTier(t *testing.T) {
	bypass := &models.Subscription{Tier: "free", Status: models.SubscriptionStatusFree, AgencyRole: models.AgencyRoleAgency}

	d, err := Evaluate(ownerSnap(), bypass, Request{Type: RequestFeature, Feature: plan.FeatureAPIAccess})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("bypass workspace must pass feature gates, got %+v", d)
	}

	d, err = Evaluate(ownerSnap(), bypass, Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCampaigns,
		CurrentCount: 10_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("bypass workspace must pass quota gates, got %+v", d)
	}
}

func TestEvaluateInvalidRequests(t *testing.T) {
	invalid := []Request{
		{Type: RequestCampaignAccess},
		{Type: RequestCampaignEdit},
		{Type: RequestFeature},
		{Type: RequestQuota},
		{Type: RequestQuota, Resource: entitlements.ResourceCampaigns, CurrentCount: -1},
		// An unrecognized resource name is a malformed request, not a
		// plan denial against an implicit zero cap.
		{Type: RequestQuota, Resource: entitlements.Resource("bogus"), CurrentCount: 1},
		{Type: RequestType("bogus")},
		{},
	}

	for _, req := range invalid {
		_, err := Evaluate(ownerSnap(), proSub(), req)
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("request %+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestEvaluateNilSubscription(t *testing.T) {
	// Missing subscription row reads as free plan, not as an error.
	d, err := Evaluate(ownerSnap(), nil, Request{
		Type:         RequestQuota,
		Resource:     entitlements.ResourceCampaigns,
		CurrentCount: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed || d.Reason != ReasonLimitReached {
		t.Fatalf("nil subscription should resolve to the free limit, got %+v", d)
	}
}
