package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/MukkuChemjong/youtube-api/internal/handler"
	"github.com/MukkuChemjong/youtube-api/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Whitelist   *handler.WhitelistHandler
	Preferences *handler.PreferencesHandler
	Category    *handler.CategoryHandler
	Sync        *handler.SyncHandler
	Health      *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string, rateLimitRPM int) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Every /api route is owner-scoped
	api := app.Group("/api", middleware.NewOwnerAuth())

	apiLimit := middleware.NewAPIRateLimiter(rateLimitRPM).Handler()
	syncLimit := middleware.NewSyncRateLimiter().Handler()
	purgeLimit := middleware.NewPurgeRateLimiter().Handler()

	// Whitelist routes
	api.Get("/whitelist", h.Whitelist.List, apiLimit)
	api.Post("/whitelist", h.Whitelist.Add, apiLimit)
	api.Delete("/whitelist", h.Whitelist.Purge, purgeLimit)
	api.Patch("/whitelist/:channelId", h.Whitelist.Update, apiLimit)
	api.Post("/whitelist/:channelId/checked", h.Whitelist.MarkChecked, apiLimit)
	api.Delete("/whitelist/:channelId", h.Whitelist.Remove, apiLimit)

	// Preferences routes
	api.Get("/preferences", h.Preferences.Get, apiLimit)
	api.Patch("/preferences", h.Preferences.Update, apiLimit)
	api.Post("/preferences/recount", h.Preferences.Recount, apiLimit)

	// Category routes
	api.Get("/categories", h.Category.List, apiLimit)
	api.Post("/categories", h.Category.Create, apiLimit)
	api.Patch("/categories/:categoryId", h.Category.Rename, apiLimit)
	api.Delete("/categories/:categoryId", h.Category.Delete, apiLimit)
	api.Get("/categories/:categoryId/members", h.Category.Members, apiLimit)
	api.Put("/categories/:categoryId/members/:channelId", h.Category.AddMember, apiLimit)
	api.Delete("/categories/:categoryId/members/:channelId", h.Category.RemoveMember, apiLimit)
	api.Get("/categories/:categoryId/active-count", h.Category.ActiveCount, apiLimit)

	// Sync routes
	api.Post("/sync/full", h.Sync.FullSync, syncLimit)
	api.Post("/sync/partial", h.Sync.PartialSync, syncLimit)
	api.Post("/sync/metadata-refresh", h.Sync.MetadataRefresh, syncLimit)
	api.Get("/sync/logs", h.Sync.Logs, apiLimit)
}
