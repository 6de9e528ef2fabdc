package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"apagon-map/internal/assistant"
	"apagon-map/internal/auth"
	"apagon-map/internal/cache"
	"apagon-map/internal/config"
	"apagon-map/internal/handlers"
	"apagon-map/internal/mq"
	"apagon-map/internal/ping"
	"apagon-map/internal/reports"
	"apagon-map/internal/routing"
	"apagon-map/internal/sectors"
)

func main() {
	// Load .env if present.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Redis ---
	redisCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisCache.Close()
	log.Println("redis connected")

	// --- RabbitMQ ---
	publisher, err := mq.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("rabbitmq publisher: %v", err)
	}
	defer publisher.Close()
	log.Println("rabbitmq connected")

	// --- Backend clients ---
	sectorClient := sectors.NewClient(cfg.APIBaseURL)
	sectorStore := sectors.NewStore(sectorClient, redisCache, time.Duration(cfg.SectorCacheTTL)*time.Second)
	reportClient := reports.NewClient(cfg.APIBaseURL)
	reportService := reports.NewService(reportClient, mq.NewReportNotifier(publisher))
	authClient := auth.NewClient(cfg.APIBaseURL)
	sessions := auth.NewSessions(redisCache, time.Duration(cfg.SessionTTL)*time.Second)
	assistantClient := assistant.NewClient(cfg.APIBaseURL)

	// --- Backend reachability prober ---
	prober := ping.NewProber(cfg.ProbeHost, cfg.APIBaseURL)
	go prober.Start(ctx, cfg.ProbeInterval)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	h := &handlers.Handlers{
		Cfg:          cfg,
		Sectors:      sectorStore,
		SectorClient: sectorClient,
		Reports:      reportService,
		ReportClient: reportClient,
		Auth:         authClient,
		Sessions:     sessions,
		Assistant:    assistantClient,
		Router:       routing.New(),
		Cache:        redisCache,
		Prober:       prober,
	}
	h.RegisterRoutes(app)

	// Serve static frontend files
	app.Static("/", "./web")

	// --- Graceful shutdown ---
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	log.Printf("server starting on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
