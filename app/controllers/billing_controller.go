package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campaignfox/CampaignFox/internal/pkg/billing"
	"github.com/campaignfox/CampaignFox/internal/pkg/env"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

var billingService *billing.Service

// InitializeBillingService wires the billing service with the policy cache
// so subscription snapshots are invalidated the moment a sync lands.
func InitializeBillingService(service *billing.Service) {
	billingService = service
}

// webhookPayload is the provider-agnostic event envelope. Providers are
// adapted to this shape at the edge so the sync path stays uniform.
type webhookPayload struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	Subscription struct {
		WorkspaceID        uint   `json:"workspace_id"`
		SubscriptionID     string `json:"subscription_id"`
		PlanRef            string `json:"plan_ref"`
		BillingCycle       string `json:"billing_cycle"`
		Status             string `json:"status"`
		ExtraSeats         int    `json:"extra_seats"`
		TrialEndAt         *int64 `json:"trial_end_at"`
		CurrentPeriodEndAt *int64 `json:"current_period_end_at"`
		CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	} `json:"subscription"`
}

// HandleBillingWebhook receives provider webhook events. The signature is
// verified against the raw body before anything is parsed; events are
// stored idempotently so provider retries never double-apply.
func HandleBillingWebhook(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if provider == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Provider is required"})
	}

	secret := env.GetEnv("BILLING_WEBHOOK_SECRET", "")
	body := c.Body()
	signatureValid := billing.VerifyWebhookSignature(body, c.Get("X-Webhook-Signature"), secret)
	if !signatureValid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature", "message": "Webhook signature verification failed"})
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid webhook payload"})
	}

	created, event, err := billingService.RecordWebhookEvent(c.Context(), billing.WebhookEventInput{
		Provider:        provider,
		ProviderEventID: payload.EventID,
		EventType:       payload.EventType,
		PayloadJSON:     string(body),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Printf("billing webhook: record failed for %s event %s: %v", provider, payload.EventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record webhook event"})
	}
	if !created {
		// Provider retry of an already-seen event.
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	syncErr := applyWebhookEvent(c, provider, payload)
	if err := billingService.MarkWebhookProcessed(c.Context(), event.ID, syncErr); err != nil {
		log.Printf("billing webhook: mark processed failed for event %d: %v", event.ID, err)
	}
	if syncErr != nil {
		log.Printf("billing webhook: sync failed for %s event %s: %v", provider, payload.EventID, syncErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to apply webhook event"})
	}

	return c.JSON(fiber.Map{"received": true})
}

func applyWebhookEvent(c *fiber.Ctx, provider string, payload webhookPayload) error {
	sub := payload.Subscription
	_, err := billingService.SyncSubscription(c.Context(), billing.NormalizedSubscription{
		WorkspaceID:            sub.WorkspaceID,
		Provider:               provider,
		ProviderSubscriptionID: sub.SubscriptionID,
		ProviderPlanRef:        sub.PlanRef,
		BillingCycle:           sub.BillingCycle,
		Status:                 sub.Status,
		ExtraSeats:             sub.ExtraSeats,
		TrialEndAt:             unixTime(sub.TrialEndAt),
		CurrentPeriodEndAt:     unixTime(sub.CurrentPeriodEndAt),
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
	})
	return err
}

// HandleGetSubscription returns the raw subscription row. Billing details
// are owner territory, so the team management gate guards it.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{Type: gate.RequestTeamManagement}); !ok {
		return err
	}

	sub, err := gate.Default().Loader().Subscription(workspace.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No subscription on record"})
	}
	return c.JSON(sub)
}

func unixTime(ts *int64) *time.Time {
	if ts == nil || *ts == 0 {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	return &t
}
