package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
)

// paramUint parses a numeric route parameter, 0 on malformed input
func paramUint(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// respondDenied translates a gate denial into the matching HTTP response.
// NO_ACCESS maps to 403, entitlement denials to 402 so the client can show
// an upgrade prompt.
func respondDenied(c *fiber.Ctx, decision gate.Decision) error {
	status := fiber.StatusForbidden
	if decision.Reason == gate.ReasonLimitReached || decision.Reason == gate.ReasonFeatureLocked {
		status = fiber.StatusPaymentRequired
	}
	return c.Status(status).JSON(fiber.Map{
		"error":    string(decision.Reason),
		"message":  decision.Message,
		"decision": decision,
	})
}

// evaluateGate runs a gate check and writes the error/denial response
// itself. It returns (true, nil) only when the caller may proceed.
func evaluateGate(c *fiber.Ctx, workspaceID, userID uint, req gate.Request) (bool, error) {
	decision, err := gate.Default().Evaluate(workspaceID, userID, req)
	if err != nil {
		return false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to evaluate access"})
	}
	if !decision.Allowed {
		return false, respondDenied(c, decision)
	}
	return true, nil
}
