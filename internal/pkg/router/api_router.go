package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/campaignfox/CampaignFox/app/controllers"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "CampaignFox API",
		})
	})

	v1 := api.Group("/v1")

	// Webhooks authenticate by signature, not by session.
	v1.Post("/billing/webhooks/:provider", controllers.HandleBillingWebhook)

	h.registerSessionRoutes(v1)
	h.registerAPIKeyRoutes(v1)
	h.registerAdminRoutes(v1)
}

// registerSessionRoutes wires the browser-facing API, authenticated via the
// session cookie.
func (h ApiRouter) registerSessionRoutes(v1 fiber.Router) {
	v1.Post("/workspaces", middleware.RequireAuth, controllers.HandleCreateWorkspace)
	v1.Get("/workspaces", middleware.RequireAuth, controllers.HandleListWorkspaces)
	v1.Post("/invites/accept", middleware.RequireAuth, controllers.HandleAcceptInvite)

	ws := v1.Group("/workspaces/:workspaceID", middleware.RequireAuth, middleware.WorkspaceContextMiddleware)
	h.registerWorkspaceRoutes(ws)
}

// registerAPIKeyRoutes exposes the same workspace surface for machine
// clients. The workspace middleware additionally enforces the api_access
// plan feature for these.
func (h ApiRouter) registerAPIKeyRoutes(v1 fiber.Router) {
	ext := v1.Group("/ext", middleware.APIKeyAuthMiddleware())
	ws := ext.Group("/workspaces/:workspaceID", middleware.WorkspaceContextMiddleware)
	h.registerWorkspaceRoutes(ws)
}

func (h ApiRouter) registerWorkspaceRoutes(ws fiber.Router) {
	ws.Get("/", controllers.HandleGetWorkspace)
	ws.Get("/entitlements", controllers.HandleGetEntitlements)
	ws.Get("/subscription", controllers.HandleGetSubscription)
	ws.Post("/gate/evaluate", controllers.HandleEvaluateGate)

	ws.Get("/members", controllers.HandleListMembers)
	ws.Post("/members/invites", controllers.HandleInviteMember)
	ws.Delete("/members/:memberID", controllers.HandleRemoveMember)

	ws.Post("/grants", controllers.HandleCreateScopeGrant)
	ws.Get("/members/:userID/grants", controllers.HandleListScopeGrants)
	ws.Delete("/grants/:grantID", controllers.HandleDeleteScopeGrant)

	ws.Post("/campaigns", controllers.HandleCreateCampaign)
	ws.Get("/campaigns", controllers.HandleListCampaigns)
	ws.Get("/campaigns/:campaignID", controllers.HandleGetCampaign)
	ws.Patch("/campaigns/:campaignID", controllers.HandleUpdateCampaign)
	ws.Post("/campaigns/:campaignID/archive", controllers.HandleArchiveCampaign)

	ws.Get("/campaigns/:campaignID/creators", controllers.HandleListCreators)
	ws.Post("/campaigns/:campaignID/creators", controllers.HandleAddCreator)
	ws.Delete("/campaigns/:campaignID/creators/:creatorID", controllers.HandleRemoveCreator)
}

func (h ApiRouter) registerAdminRoutes(v1 fiber.Router) {
	admin := v1.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	admin.Put("/workspaces/:workspaceID/agency-role", controllers.HandleSetAgencyRole)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
