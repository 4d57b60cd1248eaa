package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

// HandleEvaluateGate exposes the policy engine as a dry-run endpoint so
// clients can ask "may I?" before offering an action. Denials are returned
// with status 200; the decision payload is the answer, not an error.
func HandleEvaluateGate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	var req gate.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	decision, err := gate.Default().Evaluate(workspace.ID, userCtx.UserID, req)
	if err != nil {
		if errors.Is(err, gate.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to evaluate request"})
	}

	return c.JSON(decision)
}
