package middleware

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/app/repository"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

// WorkspaceContextMiddleware resolves the :workspaceID route param into the
// workspace model and stores it in locals. Requests authenticated via API
// key additionally pass the api_access feature gate: API access is a plan
// entitlement, not a given.
func WorkspaceContextMiddleware(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("workspaceID"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid workspace id"})
	}

	workspace, err := repository.GetGlobalFactory().GetWorkspaceRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Indistinguishable from "no access" on purpose.
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Workspace not found"})
		}
		log.Printf("workspace middleware: lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load workspace"})
	}
	c.Locals(usercontext.KeyWorkspace, workspace)

	if viaAPIKey, ok := c.Locals(KeyAuthViaAPIKey).(bool); ok && viaAPIKey {
		decision, err := gate.Default().Evaluate(workspace.ID, usercontext.GetUserID(c), gate.Request{
			Type:    gate.RequestFeature,
			Feature: plan.FeatureAPIAccess,
		})
		if err != nil {
			log.Printf("workspace middleware: api_access gate failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to evaluate access"})
		}
		if !decision.Allowed {
			status := fiber.StatusForbidden
			if decision.Reason == gate.ReasonNoAccess {
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(fiber.Map{"error": string(decision.Reason), "message": decision.Message})
		}
	}

	return c.Next()
}

// GetWorkspace returns the workspace resolved by WorkspaceContextMiddleware.
func GetWorkspace(c *fiber.Ctx) *models.Workspace {
	if ws, ok := c.Locals(usercontext.KeyWorkspace).(*models.Workspace); ok {
		return ws
	}
	return nil
}
