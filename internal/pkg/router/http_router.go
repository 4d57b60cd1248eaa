package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campaignfox/CampaignFox/app/controllers"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerAuthRoutes(app)
}

func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
	auth.Post("/api-key", middleware.RequireAuth, controllers.HandleGenerateAPIKey)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
