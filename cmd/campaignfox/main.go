package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/campaignfox/CampaignFox/app/controllers"
	"github.com/campaignfox/CampaignFox/app/repository"
	"github.com/campaignfox/CampaignFox/internal/pkg/billing"
	"github.com/campaignfox/CampaignFox/internal/pkg/cache"
	"github.com/campaignfox/CampaignFox/internal/pkg/database"
	"github.com/campaignfox/CampaignFox/internal/pkg/env"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/metrics/counter"
	"github.com/campaignfox/CampaignFox/internal/pkg/router"
)

const counterFlushInterval = 60 * time.Second

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	// The gate caches per-user snapshots; the billing service busts the
	// subscription half of that cache whenever a sync lands.
	gate.Setup(repos)
	billingService := billing.NewServiceFromDB(db, func(workspaceID uint) {
		gate.Default().Loader().InvalidateSubscription(workspaceID)
	})
	controllers.InitializeBillingService(billingService)

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "CampaignFox",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	startCounterFlush()

	return app
}

// startCounterFlush drains the buffered campaign view counters to the
// database on a fixed interval.
func startCounterFlush() {
	go func() {
		ticker := time.NewTicker(counterFlushInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := counter.FlushAll(); err != nil {
				log.Printf("counter flush failed: %v", err)
			}
		}
	}()
}
