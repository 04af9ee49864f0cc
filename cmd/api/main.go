package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zivohealth/reminders/internal/api"
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/config"
	"github.com/zivohealth/reminders/internal/database"
	gqlhandler "github.com/zivohealth/reminders/internal/graphql/handler"
	"github.com/zivohealth/reminders/internal/graphql/resolver"
	"github.com/zivohealth/reminders/internal/middleware"
	"github.com/zivohealth/reminders/internal/pubsub"
	"github.com/zivohealth/reminders/internal/repository"
	"github.com/zivohealth/reminders/pkg/jwt"
)

// main wires the Ingress API process (spec §6.1): REST and GraphQL over the
// reminders store, plus the input-queue publish path. The Scheduler,
// Ingestion Worker, and Dispatcher Worker run separately (cmd/worker).
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtManager := jwt.NewManager(cfg.JWTSecret)
	hub := pubsub.NewHub()

	reminderRepo := repository.NewReminderRepository(db)
	deviceRepo := repository.NewDeviceTokenRepository(db)

	brokerConn, err := broker.Connect(broker.Config{
		URL:             cfg.RabbitMQURL,
		Exchange:        cfg.RabbitMQExchange,
		InputQueue:      cfg.RabbitMQInputQueue,
		OutputQueue:     cfg.RabbitMQOutputQueue,
		InputRoutingKey: cfg.RabbitMQInputRoutingKey,
		OutputRoutingKey: cfg.RabbitMQOutputRoutingKey,
	})
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer brokerConn.Close()

	handlers := api.NewHandlers(reminderRepo, deviceRepo, brokerConn, jwtManager)
	gqlResolver := resolver.NewResolver(reminderRepo, deviceRepo, brokerConn, hub)
	graphqlHandler := gqlhandler.NewHandler(gqlResolver, jwtManager)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	rateLimiter := middleware.NewRateLimiter(600, time.Minute)
	r.Use(middleware.RateLimitMiddleware(rateLimiter))

	handlers.Register(r)

	r.POST("/graphql", graphqlHandler.GraphQL)
	r.GET("/graphql", func(c *gin.Context) {
		if c.GetHeader("Upgrade") == "websocket" {
			graphqlHandler.WebSocketHandler(c)
			return
		}
		if c.Query("query") != "" {
			graphqlHandler.GraphQLGet(c)
			return
		}
		graphqlHandler.Playground(c)
	})

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	port := cfg.ServicePort
	if port == "" {
		port = "8080"
	}

	log.Printf("[api] starting reminders ingress API on %s:%s", cfg.ServiceHost, port)
	if err := r.Run(cfg.ServiceHost + ":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
