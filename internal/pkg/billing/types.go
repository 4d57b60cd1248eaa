package billing

import "time"

// NormalizedSubscription is the provider-agnostic shape used by the billing
// service when syncing external subscription state onto a workspace.
type NormalizedSubscription struct {
	WorkspaceID            uint
	Provider               string
	ProviderSubscriptionID string
	ProviderPlanRef        string
	BillingCycle           string
	Status                 string
	AgencyRole             string
	ExtraSeats             int
	TrialEndAt             *time.Time
	CurrentPeriodEndAt     *time.Time
	CancelAtPeriodEnd      bool
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}
