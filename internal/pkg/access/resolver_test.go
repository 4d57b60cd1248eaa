package access

import (
	"reflect"
	"testing"
)

func TestParseRoleUnknownIsNone(t *testing.T) {
	for _, in := range []string{"", "admin", "owner", "member"} {
		if got := ParseRole(in); got != RoleNone {
			t.Fatalf("ParseRole(%q) = %q, want none", in, got)
		}
	}
	if got := ParseRole("Brand_Owner"); got != RoleBrandOwner {
		t.Fatalf("ParseRole should be case insensitive, got %q", got)
	}
}

func TestOwnerHasFullControl(t *testing.T) {
	snap := NewSnapshot("brand_owner", nil)

	if !snap.CanAccessWorkspace() || !snap.CanEditWorkspace() {
		t.Fatalf("owner must have workspace editor access without grants")
	}
	if !snap.CanAccessCampaign(1) || !snap.CanEditCampaign(1) {
		t.Fatalf("owner must access and edit every campaign")
	}
	if !snap.CanAccessCalendar() || !snap.CanEditCalendar() {
		t.Fatalf("owner must access and edit the calendar")
	}
	if !snap.CanManageTeam() {
		t.Fatalf("owner must manage the team")
	}
}

func TestOperatorWithoutGrantsHasNothing(t *testing.T) {
	for _, role := range []string{"agency_admin", "brand_member", "agency_ops"} {
		snap := NewSnapshot(role, nil)
		if snap.CanAccessWorkspace() {
			t.Fatalf("%s without grants must not access the workspace", role)
		}
		if snap.CanAccessCampaign(1) {
			t.Fatalf("%s without grants must not access campaigns", role)
		}
		if snap.CanManageTeam() {
			t.Fatalf("%s must never manage the team", role)
		}
	}
}

func TestWorkspaceGrantSupersedesCampaignGrants(t *testing.T) {
	// Workspace viewer sees every campaign even without campaign grants.
	viewer := NewSnapshot("brand_member", []RawGrant{
		{ScopeType: "workspace", ScopeValue: "viewer"},
	})
	if !viewer.CanAccessCampaign(123) {
		t.Fatalf("workspace viewer must access any campaign")
	}
	if viewer.CanEditCampaign(123) {
		t.Fatalf("workspace viewer must not edit campaigns")
	}

	editor := NewSnapshot("agency_ops", []RawGrant{
		{ScopeType: "workspace", ScopeValue: "editor"},
	})
	if !editor.CanEditCampaign(123) || !editor.CanEditCalendar() {
		t.Fatalf("workspace editor must edit campaigns and the calendar")
	}
	if editor.CanManageTeam() {
		t.Fatalf("workspace editor grant must not confer team management")
	}
}

func TestCampaignGrantIsScopedToItsCampaign(t *testing.T) {
	snap := NewSnapshot("brand_member", []RawGrant{
		{ScopeType: "campaign", ScopeValue: "5:editor"},
		{ScopeType: "campaign", ScopeValue: "9:viewer"},
	})

	if !snap.CanEditCampaign(5) {
		t.Fatalf("campaign editor grant must allow editing campaign 5")
	}
	if !snap.CanAccessCampaign(9) {
		t.Fatalf("campaign viewer grant must allow viewing campaign 9")
	}
	if snap.CanEditCampaign(9) {
		t.Fatalf("viewer grant on campaign 9 must not allow editing")
	}
	if snap.CanAccessCampaign(6) {
		t.Fatalf("grants must not leak to other campaigns")
	}
	if snap.CanAccessWorkspace() {
		t.Fatalf("campaign grants must not confer workspace access")
	}
	if snap.CanAccessCalendar() {
		t.Fatalf("campaign grants must not confer calendar access")
	}
}

func TestMalformedGrantsAreDropped(t *testing.T) {
	snap := NewSnapshot("brand_member", []RawGrant{
		{ScopeType: "workspace", ScopeValue: "admin"},
		{ScopeType: "campaign", ScopeValue: "nope"},
		{ScopeType: "campaign", ScopeValue: "0:editor"},
		{ScopeType: "badtype", ScopeValue: "editor"},
	})
	if len(snap.Grants) != 0 {
		t.Fatalf("expected all malformed grants dropped, kept %d", len(snap.Grants))
	}
	if snap.CanAccessWorkspace() || snap.CanAccessCampaign(1) {
		t.Fatalf("malformed grants must grant nothing")
	}
}

func TestFilterAccessibleCampaigns(t *testing.T) {
	snap := NewSnapshot("agency_ops", []RawGrant{
		{ScopeType: "campaign", ScopeValue: "2:viewer"},
		{ScopeType: "campaign", ScopeValue: "4:editor"},
	})

	got := snap.FilterAccessibleCampaigns([]uint{1, 2, 3, 4, 5})
	want := []uint{2, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterAccessibleCampaigns = %v, want %v", got, want)
	}

	// empty result is valid output
	none := NewSnapshot("brand_member", nil)
	if got := none.FilterAccessibleCampaigns([]uint{1, 2}); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}

	owner := NewSnapshot("brand_owner", nil)
	if got := owner.FilterAccessibleCampaigns([]uint{1, 2}); !reflect.DeepEqual(got, []uint{1, 2}) {
		t.Fatalf("owner must see every campaign, got %v", got)
	}
}
