package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"apagon-map/internal/bot"
	"apagon-map/internal/config"
	"apagon-map/internal/database"
	"apagon-map/internal/mq"
)

func main() {
	// Load .env if present.
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required. Get one from @BotFather on Telegram.")
	}
	if cfg.ChannelID == 0 {
		log.Fatal("CHANNEL_ID is required for report announcements.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database ---
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database connected and migrated")

	// --- RabbitMQ ---
	consumer, err := mq.NewConsumer(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("rabbitmq consumer: %v", err)
	}
	defer consumer.Close()
	log.Println("rabbitmq connected")

	// --- Telegram Bot ---
	tgBot, err := bot.New(cfg.BotToken)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}
	notifier := bot.NewReportNotifier(tgBot, cfg.ChannelID)

	deliveries, err := consumer.Consume(mq.QueueReportCreated)
	if err != nil {
		log.Fatalf("consume %s: %v", mq.QueueReportCreated, err)
	}

	go func() {
		for d := range deliveries {
			var msg mq.ReportCreatedMsg
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("[worker] dropping malformed message: %v", err)
				_ = d.Nack(false, false)
				continue
			}

			notified, err := db.WasNotified(ctx, msg.ReportID)
			if err != nil {
				log.Printf("[worker] journal lookup for report %d: %v", msg.ReportID, err)
				_ = d.Nack(false, true)
				continue
			}
			if notified {
				_ = d.Ack(false)
				continue
			}

			messageID, err := notifier.NotifyReport(msg)
			if err != nil {
				_ = d.Nack(false, true)
				continue
			}
			if err := db.MarkNotified(ctx, msg.ReportID, messageID); err != nil {
				log.Printf("[worker] journal write for report %d: %v", msg.ReportID, err)
			}
			_ = d.Ack(false)
		}
	}()
	log.Println("report announcer started")

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down worker...")
	cancel()
}
