package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/kiosk-feed/internal/api/http"
	"github.com/i474232898/kiosk-feed/internal/board"
	"github.com/i474232898/kiosk-feed/internal/board/providers"
	"github.com/i474232898/kiosk-feed/internal/config"
	"github.com/i474232898/kiosk-feed/internal/scheduler"
	"github.com/i474232898/kiosk-feed/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls; each fetch carries its own deadline.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}

	// Result cache: Redis when configured, otherwise in-process.
	var cache board.Cache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := store.NewRedisCacheFromURL(ctx, cfg.RedisURL, cfg.CacheTTL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rc.Close()
		cache = rc
		log.Println("INFO: using redis result cache")
	} else {
		cache = store.NewMemoryCache(cfg.CacheTTL, nil)
	}

	forecast := providers.NewKMAProvider(httpClient, cfg.WeatherServiceKey, providers.Grid{
		NX: cfg.GridNX,
		NY: cfg.GridNY,
	})
	meal := providers.NewNEISProvider(httpClient, cfg.NEISAPIKey, providers.School{
		OfficeCode: cfg.NEISOfficeCode,
		SchoolCode: cfg.NEISSchoolCode,
	})

	// Core service orchestrating providers and cache.
	service := board.NewService(cache, forecast, meal, board.ServiceConfig{
		Location:     cfg.Location,
		FetchTimeout: cfg.UpstreamTimeout,
	})

	// Optional warm-up keeping the cache fresh.
	sched := scheduler.New(cfg.RefreshInterval, 2*cfg.UpstreamTimeout, service, cfg.Location)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp()

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		PhotosDir: cfg.PhotosDir,
		PublicDir: cfg.PublicDir,
	})

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
