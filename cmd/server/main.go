package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/database"
	"github.com/localnerve/jam-build-formsdb/internal/handlers"
	"github.com/localnerve/jam-build-formsdb/internal/middleware"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
	"gorm.io/gorm"

	_ "github.com/localnerve/jam-build-formsdb/docs/api" // Swagger docs
)

// @title FormsDB API
// @version 1.0.0
// @description Form builder and submission collection service with multi-database support
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/jam-build-formsdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database (owner API pool)
	appDB, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to app database: %v", err)
	}
	defer database.Close(appDB)

	// Connect to database (public collector pool)
	publicDB, err := database.ConnectPublic(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to public database: %v", err)
	}
	defer database.Close(publicDB)

	// Run auto-migrations
	if err := database.AutoMigrate(appDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics, domain counters share the default registry
	prometheus := fiberprometheus.New("formsdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health
	healthHandler := &handlers.HealthHandler{Config: cfg, Pools: []*gorm.DB{appDB, publicDB}}
	app.Get("/health", healthHandler.Health)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	formService := services.NewFormService(store.NewGormStore(appDB))
	ownerSubmissions := services.NewSubmissionService(store.NewGormStore(appDB), cfg.KeySubmissionsByID, cfg.SubmissionPageLimit)
	publicSubmissions := services.NewSubmissionService(store.NewGormStore(publicDB), cfg.KeySubmissionsByID, cfg.SubmissionPageLimit)

	formHandler := &handlers.FormHandler{Forms: formService}
	fieldHandler := &handlers.FieldHandler{Forms: formService}
	ownerSubmissionHandler := &handlers.SubmissionHandler{Submissions: ownerSubmissions}
	publicHandler := &handlers.SubmissionHandler{Submissions: publicSubmissions}

	// Public routes
	api.Get("/field-types", handlers.GetFieldTypes)
	api.Get("/public/:owner/:slug", publicHandler.GetPublicForm)
	api.Post("/public/:owner/:slug/submissions", publicHandler.Submit)

	// Owner routes (all require user authentication)
	forms := api.Group("/forms", middleware.AuthUser(cfg))
	forms.Get("/", formHandler.ListForms)
	forms.Post("/", formHandler.CreateForm)
	forms.Get("/:form", formHandler.GetForm)
	forms.Patch("/:form", formHandler.UpdateForm)
	forms.Delete("/:form", formHandler.DeleteForm)
	forms.Post("/:form/publish", formHandler.TogglePublish)
	forms.Put("/:form/slug", formHandler.RenameSlug)
	forms.Get("/:form/fields", fieldHandler.ListFields)
	forms.Post("/:form/fields", fieldHandler.AddFields)
	forms.Patch("/:form/fields/:field", fieldHandler.UpdateField)
	forms.Delete("/:form/fields/:field", fieldHandler.RemoveField)
	forms.Post("/:form/fields/:field/move", fieldHandler.MoveField)
	forms.Post("/:form/fields/:field/duplicate", fieldHandler.DuplicateField)
	forms.Get("/:form/submissions", ownerSubmissionHandler.ListSubmissions)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	if ce, ok := types.AsCustomError(err); ok {
		return utils.CustomErrorResponse(c, ce)
	}

	code := fiber.StatusInternalServerError
	message := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return utils.ErrorResponse(c, message, code, "unknown")
}
