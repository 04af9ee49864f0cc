package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/config"
	"github.com/zivohealth/reminders/internal/database"
	"github.com/zivohealth/reminders/internal/dispatcher"
	"github.com/zivohealth/reminders/internal/ingestion"
	"github.com/zivohealth/reminders/internal/push"
	"github.com/zivohealth/reminders/internal/repository"
	"github.com/zivohealth/reminders/internal/scheduler"
	"github.com/zivohealth/reminders/internal/suppression"
	"github.com/zivohealth/reminders/internal/userprofile"
)

// main wires the background process (spec §4.2-§4.5): the Scheduler's three
// periodic scans and the two queue consumers, the Ingestion Worker and the
// Dispatcher Worker. It shares the same Store and broker topology as
// cmd/api but never serves HTTP.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	reminderRepo := repository.NewReminderRepository(db)
	deviceRepo := repository.NewDeviceTokenRepository(db)
	suppressionSource := suppression.NewGormSource(db)
	profileSource := userprofile.NewGormSource(db)

	brokerConn, err := broker.Connect(broker.Config{
		URL:              cfg.RabbitMQURL,
		Exchange:         cfg.RabbitMQExchange,
		InputQueue:       cfg.RabbitMQInputQueue,
		OutputQueue:      cfg.RabbitMQOutputQueue,
		InputRoutingKey:  cfg.RabbitMQInputRoutingKey,
		OutputRoutingKey: cfg.RabbitMQOutputRoutingKey,
	})
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer brokerConn.Close()

	fcmClient, apnsClient := buildPushClients(cfg)

	sched := scheduler.New(
		reminderRepo,
		brokerConn,
		suppressionSource,
		profileSource,
		cfg.DefaultTimezone,
		cfg.SchedulerBatchSize,
		cfg.SchedulerScanIntervalSeconds,
		cfg.CleanupGraceSeconds,
	)
	ingestionWorker := ingestion.NewWorker(brokerConn, reminderRepo)
	dispatchWorker := dispatcher.NewWorker(brokerConn, fcmClient, apnsClient, deviceRepo, profileSource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go sched.Run(ctx)

	for i := 0; i < cfg.WorkerConcurrency; i++ {
		tag := fmt.Sprintf("ingestion-worker-%d", i)
		go func(tag string) {
			if err := ingestionWorker.Run(ctx, tag); err != nil && ctx.Err() == nil {
				log.Printf("[IngestionWorker] exited: %v", err)
			}
		}(tag)
	}

	for i := 0; i < cfg.WorkerConcurrency; i++ {
		tag := fmt.Sprintf("dispatcher-worker-%d", i)
		go func(tag string) {
			if err := dispatchWorker.Run(ctx, tag); err != nil && ctx.Err() == nil {
				log.Printf("[Dispatcher] exited: %v", err)
			}
		}(tag)
	}

	log.Printf("[worker] background process started: %d ingestion + %d dispatcher consumers", cfg.WorkerConcurrency, cfg.WorkerConcurrency)

	<-sigChan
	log.Printf("[worker] shutdown signal received, stopping")
	cancel()
}

// buildPushClients wires one client per platform (spec §B.3: FCM for
// Android/web tokens, APNs for iOS tokens), independently, so a deployment
// with only one provider configured still routes the other platform's
// tokens through a no-op rather than misdelivering them through the wrong
// provider.
func buildPushClients(cfg *config.Config) (fcmClient, apnsClient push.Client) {
	fcmClient = push.NoopClient{}
	apnsClient = push.NoopClient{}

	if cfg.PushConfigured() {
		log.Printf("[worker] Android/web push delivery via FCM")
		fcmClient = push.NewFCMClient(cfg.FCMProjectID, cfg.FCMCredentialsJSON)
	} else {
		log.Printf("[worker] no FCM credentials configured, Android/web push is a no-op")
	}

	if cfg.APNsKeyID != "" && cfg.APNsTeamID != "" && cfg.APNsPrivateKey != "" {
		client, err := push.NewAPNSClient(cfg.APNsKeyID, cfg.APNsTeamID, cfg.APNsPrivateKey, cfg.APNsBundleID, cfg.IsProduction())
		if err != nil {
			log.Printf("[worker] APNs client not initialized: %v, iOS push is a no-op", err)
		} else {
			log.Printf("[worker] iOS push delivery via APNs")
			apnsClient = client
		}
	} else {
		log.Printf("[worker] no APNs credentials configured, iOS push is a no-op")
	}

	return fcmClient, apnsClient
}
