package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"fieldpulse/config"
	controller "fieldpulse/controllers"
	"fieldpulse/middleware"
	"fieldpulse/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize logger
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	visitController := controller.NewVisitController(db, log.New(os.Stdout, "VISIT: ", log.LstdFlags))

	cache := utils.NewReportCache(config.AppConfig.Redis, config.AppConfig.DashboardCacheTTL)
	var summarizer utils.Summarizer
	if config.AppConfig.SummarizerURL != "" {
		summarizer = utils.NewHTTPSummarizer(config.AppConfig.SummarizerURL)
	}
	dashboardController := controller.NewDashboardController(db,
		log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags), cache, summarizer)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Get("/metrics", dashboardController.GetDashboardMetrics)
	dashboard.Get("/summary", dashboardController.GetSummary)
	dashboard.Get("/agents", middleware.ManagerOnly(), dashboardController.GetAgents)

	// WebSocket route for live metric pushes
	api.Get("/dashboard/live", websocket.New(dashboardController.HandleLiveMetrics))

	// Visit routes
	visit := api.Group("/visits")
	visit.Post("/", visitController.CreateVisit)
	visit.Get("/", visitController.GetVisits)
	visit.Get("/export", visitController.ExportVisits)
	visit.Post("/import", middleware.ImportRateLimiter(), visitController.ImportVisits)
	visit.Get("/:id", visitController.GetVisit)
	visit.Put("/:id", visitController.UpdateVisit)
	visit.Delete("/:id", visitController.DeleteVisit)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app, db)

	// Setup API routes
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
