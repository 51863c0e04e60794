package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/MukkuChemjong/youtube-api/internal/config"
	"github.com/MukkuChemjong/youtube-api/internal/db"
	"github.com/MukkuChemjong/youtube-api/internal/handler"
	"github.com/MukkuChemjong/youtube-api/internal/middleware"
	"github.com/MukkuChemjong/youtube-api/internal/repository"
	"github.com/MukkuChemjong/youtube-api/internal/router"
	"github.com/MukkuChemjong/youtube-api/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "whitelist-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	channelRepo := repository.NewChannelRepo(pool)
	prefsRepo := repository.NewPreferencesRepo(pool)
	categoryRepo := repository.NewCategoryRepo(pool)
	syncLogRepo := repository.NewSyncLogRepo(pool)

	whitelistSvc := service.NewWhitelistService(channelRepo, prefsRepo, cache)
	prefsSvc := service.NewPreferencesService(prefsRepo, cache)
	categorySvc := service.NewCategoryService(categoryRepo, channelRepo)
	syncSvc := service.NewSyncService(channelRepo, syncLogRepo, cache, cfg.SyncDeletePolicy)

	// Convergence path for the total_channels counter: recount owners whose
	// whitelists changed, driven by the DB trigger's NOTIFY stream.
	worker := service.NewRecountWorker(pool, prefsRepo, cache, cfg.RecountBatchWindow)
	go worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Whitelist API",
		ServerHeader: "Whitelist",
	})

	h := &router.Handlers{
		Whitelist:   handler.NewWhitelistHandler(whitelistSvc),
		Preferences: handler.NewPreferencesHandler(prefsSvc),
		Category:    handler.NewCategoryHandler(categorySvc),
		Sync:        handler.NewSyncHandler(syncSvc, cfg.IPSalt),
		Health:      handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, cfg.CORSOrigins, cfg.RateLimitRPS)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Println("shutting down")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("whitelist backend starting on :%s (env=%s, delete policy=%s)",
		cfg.Port, cfg.Environment, cfg.SyncDeletePolicy)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
