package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
)

// Service provides provider-neutral subscription synchronization. It is the
// only write path for workspace subscriptions; the entitlement resolver
// only ever reads the snapshots this service maintains.
type Service struct {
	repo     Repository
	onChange func(workspaceID uint)
}

// NewService creates a billing service from an injected repository. The
// onChange hook fires after every subscription mutation so cached policy
// snapshots can be invalidated; it may be nil.
func NewService(repo Repository, onChange func(workspaceID uint)) *Service {
	return &Service{repo: repo, onChange: onChange}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, onChange func(workspaceID uint)) *Service {
	return NewService(NewRepository(db), onChange)
}

// ResolveMappedTier resolves a provider plan reference to an internal tier.
// Prefers an exact billing-cycle match, falls back to mappings stored with
// cycle "unknown", and resolves to free when no mapping exists.
func (s *Service) ResolveMappedTier(ctx context.Context, provider, providerPlanRef, cycle string) (plan.Tier, error) {
	_ = ctx
	p := strings.ToLower(strings.TrimSpace(provider))
	ref := strings.TrimSpace(providerPlanRef)
	c := normalizeCycle(cycle)
	if p == "" || ref == "" {
		return plan.TierFree, errors.New("provider and provider plan ref are required")
	}

	m, err := s.repo.FindActivePlanMapping(p, ref, c)
	if err == nil {
		return plan.NormalizeTier(m.InternalTier), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return plan.TierFree, err
	}

	// Fallback for mappings that intentionally use "unknown".
	m, err = s.repo.FindActivePlanMapping(p, ref, models.BillingCycleUnknown)
	if err == nil {
		return plan.NormalizeTier(m.InternalTier), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return plan.TierFree, gorm.ErrRecordNotFound
	}
	return plan.TierFree, err
}

// SyncSubscription upserts provider subscription data onto the workspace
// row. The agency role never comes from the provider payload; an existing
// bypass marking survives every sync.
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.Subscription, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if in.WorkspaceID == 0 || provider == "" || strings.TrimSpace(in.ProviderSubscriptionID) == "" {
		return nil, errors.New("workspace_id, provider and provider_subscription_id are required")
	}

	cycle := normalizeCycle(in.BillingCycle)
	status := normalizeStatus(in.Status)

	tier, err := s.ResolveMappedTier(ctx, provider, in.ProviderPlanRef, cycle)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	agencyRole := models.AgencyRoleNone
	if existing, err := s.repo.GetSubscriptionByWorkspace(in.WorkspaceID); err == nil {
		agencyRole = existing.AgencyRole
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	extraSeats := in.ExtraSeats
	if extraSeats < 0 {
		extraSeats = 0
	}

	sub := &models.Subscription{
		WorkspaceID:            in.WorkspaceID,
		Tier:                   string(tier),
		Status:                 status,
		BillingCycle:           cycle,
		ExtraSeats:             extraSeats,
		AgencyRole:             agencyRole,
		Provider:               provider,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		TrialEndAt:             in.TrialEndAt,
		CurrentPeriodEndAt:     in.CurrentPeriodEndAt,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, err
	}

	if s.onChange != nil {
		s.onChange(in.WorkspaceID)
	}
	return sub, nil
}

// SetAgencyRole marks or clears the operator bypass on a workspace. This is
// an internal admin operation, never driven by provider webhooks.
func (s *Service) SetAgencyRole(ctx context.Context, workspaceID uint, agencyRole string) (*models.Subscription, error) {
	_ = ctx
	if workspaceID == 0 {
		return nil, errors.New("workspace_id is required")
	}

	sub, err := s.repo.GetSubscriptionByWorkspace(workspaceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		sub = &models.Subscription{
			WorkspaceID: workspaceID,
			Tier:        string(plan.TierFree),
			Status:      models.SubscriptionStatusFree,
		}
	}
	sub.AgencyRole = normalizeAgencyRole(agencyRole)
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, err
	}

	if s.onChange != nil {
		s.onChange(workspaceID)
	}
	return sub, nil
}

// RecordWebhookEvent persists webhook payloads idempotently. Events without
// a provider event id are keyed by a payload hash instead.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
