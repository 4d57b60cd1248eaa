package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
)

// fakeRepository keeps everything in maps so service logic is tested
// without a database.
type fakeRepository struct {
	mappings      map[string]*models.BillingPlanMapping
	subscriptions map[uint]*models.Subscription
	events        map[string]*models.BillingWebhookEvent
	nextID        uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		mappings:      make(map[string]*models.BillingPlanMapping),
		subscriptions: make(map[uint]*models.Subscription),
		events:        make(map[string]*models.BillingWebhookEvent),
	}
}

func mappingKey(provider, ref, cycle string) string {
	return provider + "|" + ref + "|" + cycle
}

func (f *fakeRepository) addMapping(provider, ref, cycle, tier string) {
	f.mappings[mappingKey(provider, ref, cycle)] = &models.BillingPlanMapping{
		Provider:        provider,
		ProviderPlanRef: ref,
		BillingCycle:    cycle,
		InternalTier:    tier,
		IsActive:        true,
	}
}

func (f *fakeRepository) FindActivePlanMapping(provider, ref, cycle string) (*models.BillingPlanMapping, error) {
	if m, ok := f.mappings[mappingKey(provider, ref, cycle)]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetSubscriptionByWorkspace(workspaceID uint) (*models.Subscription, error) {
	if sub, ok := f.subscriptions[workspaceID]; ok {
		copied := *sub
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpsertSubscription(sub *models.Subscription) error {
	if existing, ok := f.subscriptions[sub.WorkspaceID]; ok {
		sub.ID = existing.ID
	} else {
		f.nextID++
		sub.ID = f.nextID
	}
	copied := *sub
	f.subscriptions[sub.WorkspaceID] = &copied
	return nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "|" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	f.nextID++
	event.ID = f.nextID
	copied := *event
	f.events[key] = &copied
	return true, &copied, nil
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, event := range f.events {
		if event.ID == id {
			event.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestResolveMappedTier(t *testing.T) {
	repo := newFakeRepository()
	repo.addMapping("stripe", "price_pro_m", "month", "pro")
	repo.addMapping("stripe", "price_agency", "unknown", "agency")
	svc := NewService(repo, nil)

	tier, err := svc.ResolveMappedTier(context.Background(), "stripe", "price_pro_m", "month")
	require.NoError(t, err)
	assert.Equal(t, plan.TierPro, tier)

	// Cycle-less mappings are found through the "unknown" fallback.
	tier, err = svc.ResolveMappedTier(context.Background(), "stripe", "price_agency", "year")
	require.NoError(t, err)
	assert.Equal(t, plan.TierAgency, tier)

	// Unmapped refs resolve to free with a not-found error.
	tier, err = svc.ResolveMappedTier(context.Background(), "stripe", "price_nope", "month")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Equal(t, plan.TierFree, tier)
}

func TestSyncSubscription(t *testing.T) {
	repo := newFakeRepository()
	repo.addMapping("stripe", "price_pro_m", "month", "pro")

	var invalidated []uint
	svc := NewService(repo, func(workspaceID uint) {
		invalidated = append(invalidated, workspaceID)
	})

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		WorkspaceID:            7,
		Provider:               "Stripe",
		ProviderSubscriptionID: "sub_123",
		ProviderPlanRef:        "price_pro_m",
		BillingCycle:           "month",
		Status:                 "active",
		ExtraSeats:             2,
	})
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Tier)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "stripe", sub.Provider)
	assert.Equal(t, 2, sub.ExtraSeats)
	assert.Equal(t, models.AgencyRoleNone, sub.AgencyRole)
	assert.Equal(t, []uint{7}, invalidated)
}

func TestSyncSubscriptionPreservesAgencyRole(t *testing.T) {
	repo := newFakeRepository()
	repo.addMapping("stripe", "price_pro_m", "month", "pro")
	svc := NewService(repo, nil)

	_, err := svc.SetAgencyRole(context.Background(), 7, "agency")
	require.NoError(t, err)

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		WorkspaceID:            7,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_123",
		ProviderPlanRef:        "price_pro_m",
		BillingCycle:           "month",
		Status:                 "active",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AgencyRoleAgency, sub.AgencyRole, "provider sync must not clear the agency marking")
}

func TestSyncSubscriptionClampsAndNormalizes(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		WorkspaceID:            3,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_9",
		ProviderPlanRef:        "price_unmapped",
		BillingCycle:           "weekly",
		Status:                 "SOMETHING_ODD",
		ExtraSeats:             -4,
	})
	require.NoError(t, err)
	assert.Equal(t, "free", sub.Tier, "unmapped plan ref falls back to free")
	assert.Equal(t, models.SubscriptionStatusFree, sub.Status)
	assert.Equal(t, models.BillingCycleUnknown, sub.BillingCycle)
	assert.Equal(t, 0, sub.ExtraSeats)
}

func TestSyncSubscriptionValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	_, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_1",
	})
	assert.Error(t, err, "missing workspace id must be rejected")

	_, err = svc.SyncSubscription(context.Background(), NormalizedSubscription{
		WorkspaceID: 1,
		Provider:    "stripe",
	})
	assert.Error(t, err, "missing provider subscription id must be rejected")
}

func TestSetAgencyRoleCreatesRowWhenMissing(t *testing.T) {
	repo := newFakeRepository()
	var invalidated []uint
	svc := NewService(repo, func(workspaceID uint) {
		invalidated = append(invalidated, workspaceID)
	})

	sub, err := svc.SetAgencyRole(context.Background(), 11, "super_agency")
	require.NoError(t, err)
	assert.Equal(t, models.AgencyRoleSuperAgency, sub.AgencyRole)
	assert.Equal(t, "free", sub.Tier)
	assert.Equal(t, []uint{11}, invalidated)

	sub, err = svc.SetAgencyRole(context.Background(), 11, "none")
	require.NoError(t, err)
	assert.Equal(t, models.AgencyRoleNone, sub.AgencyRole)
}

func TestRecordWebhookEventIdempotent(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	created, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "subscription.updated",
		PayloadJSON:     `{"id":"evt_1"}`,
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, event)

	created, dup, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "subscription.updated",
		PayloadJSON:     `{"id":"evt_1"}`,
	})
	require.NoError(t, err)
	assert.False(t, created, "replayed event must not be created twice")
	assert.Equal(t, event.ID, dup.ID)
}

func TestRecordWebhookEventHashKeyFallback(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)

	payload := `{"no_event_id":true}`
	created, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "paddle",
		PayloadJSON: payload,
	})
	require.NoError(t, err)
	assert.True(t, created)

	sum := sha256.Sum256([]byte(payload))
	assert.Equal(t, "hash:"+hex.EncodeToString(sum[:]), event.ProviderEventID)

	// The same payload replayed is recognized through its hash.
	created, _, err = svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "paddle",
		PayloadJSON: payload,
	})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event_id":"evt_1"}`)
	secret := "whsec_test"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhookSignature(payload, valid, secret))
	assert.True(t, VerifyWebhookSignature(payload, strings.ToUpper(valid), secret))
	assert.False(t, VerifyWebhookSignature(payload, valid, "wrong_secret"))
	assert.False(t, VerifyWebhookSignature([]byte(`tampered`), valid, secret))
	assert.False(t, VerifyWebhookSignature(payload, "", secret))
	assert.False(t, VerifyWebhookSignature(payload, valid, ""))
	assert.False(t, VerifyWebhookSignature(payload, "not-hex", secret))
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "active", want: models.SubscriptionStatusActive},
		{in: "TRIALING", want: models.SubscriptionStatusTrialing},
		{in: " past_due ", want: models.SubscriptionStatusPastDue},
		{in: "canceled", want: models.SubscriptionStatusCanceled},
		{in: "expired", want: models.SubscriptionStatusExpired},
		{in: "incomplete", want: models.SubscriptionStatusFree},
		{in: "", want: models.SubscriptionStatusFree},
	}
	for _, tt := range tests {
		if got := normalizeStatus(tt.in); got != tt.want {
			t.Fatalf("normalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
