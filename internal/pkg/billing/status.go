package billing

import (
	"strings"

	"github.com/campaignfox/CampaignFox/app/models"
)

func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.SubscriptionStatusTrialing:
		return models.SubscriptionStatusTrialing
	case models.SubscriptionStatusActive:
		return models.SubscriptionStatusActive
	case models.SubscriptionStatusPastDue:
		return models.SubscriptionStatusPastDue
	case models.SubscriptionStatusCanceled:
		return models.SubscriptionStatusCanceled
	case models.SubscriptionStatusExpired:
		return models.SubscriptionStatusExpired
	default:
		return models.SubscriptionStatusFree
	}
}

func normalizeCycle(cycle string) string {
	c := strings.ToLower(strings.TrimSpace(cycle))
	switch c {
	case models.BillingCycleMonth, models.BillingCycleYear:
		return c
	default:
		return models.BillingCycleUnknown
	}
}

func normalizeAgencyRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.AgencyRoleAgency:
		return models.AgencyRoleAgency
	case models.AgencyRoleSuperAgency:
		return models.AgencyRoleSuperAgency
	default:
		return models.AgencyRoleNone
	}
}
