package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/campaignfox/CampaignFox/app/models"
)

type setAgencyRoleRequest struct {
	AgencyRole string `json:"agency_role"`
}

// HandleSetAgencyRole marks or clears the agency bypass on a workspace
// subscription. Platform admins only; provider webhooks can never set this.
func HandleSetAgencyRole(c *fiber.Ctx) error {
	workspaceID := paramUint(c, "workspaceID")
	if workspaceID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid workspace id"})
	}

	var req setAgencyRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	switch req.AgencyRole {
	case models.AgencyRoleNone, models.AgencyRoleAgency, models.AgencyRoleSuperAgency:
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "agency_role must be none, agency or super_agency"})
	}

	sub, err := billingService.SetAgencyRole(c.Context(), workspaceID, req.AgencyRole)
	if err != nil {
		log.Printf("admin set agency role failed for workspace %d: %v", workspaceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update agency role"})
	}

	return c.JSON(sub)
}
