package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/clipstudio/configs"
	"github.com/maheshrc27/clipstudio/internal/api"
	"github.com/maheshrc27/clipstudio/internal/api/handlers"
	"github.com/maheshrc27/clipstudio/internal/api/middleware"
	"github.com/maheshrc27/clipstudio/internal/authapi"
	job "github.com/maheshrc27/clipstudio/internal/jobs"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/maheshrc27/clipstudio/internal/queue"
	"github.com/maheshrc27/clipstudio/internal/repository"
	"github.com/maheshrc27/clipstudio/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

// uploadSlack is added to the verify timeout to cover create and upload.
const uploadSlack = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	allowed, err := service.ParseAllowedConnections(cfg.AllowedConnections)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	r2Service, err := service.NewR2Service(context.Background(), *cfg)
	if err != nil {
		log.Fatalf("Failed to configure storage: %v", err)
	}

	sessionRepo := repository.NewSessionRepository(rdb, cfg.SessionTTL)
	historyRepo := repository.NewPublishHistoryRepository(db)

	authClient := authapi.NewClient(cfg.AuthAPIURL, cfg.AuthAPIKey, nil)

	orchestrator := publish.New(publish.Config{
		Unaudited: cfg.Tiktok.Unaudited,
		ChunkSize: cfg.Publish.ChunkSize,
		Poll: publish.PollConfig{
			Interval:    cfg.Publish.PollInterval,
			MaxInterval: cfg.Publish.PollMaxInterval,
			MaxAttempts: cfg.Publish.PollMaxAttempts,
			Timeout:     cfg.Publish.PollTimeout,
		},
	}, sessionRepo)

	connectionService := service.NewConnectionService(authClient, allowed)
	tiktokService := service.NewTiktokService(*cfg, &http.Client{Timeout: 10 * time.Minute})
	clipService := service.NewClipService(r2Service)
	publishService := service.NewPublishService(orchestrator, sessionRepo, historyRepo, authClient, tiktokService, r2Service)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	taskTimeout := cfg.Publish.PollTimeout + uploadSlack

	app := api.NewApp(*cfg)
	api.SetupRoutes(app, api.Handlers{
		Layers:      handlers.NewLayerHandler(),
		Connections: handlers.NewConnectionHandler(connectionService),
		Clips:       handlers.NewClipHandler(clipService),
		Publish:     handlers.NewPublishHandler(publishService, client, taskTimeout),
	}, authMiddleware.AuthMiddleware())

	// cron jobs
	historyPruneJob := job.NewHistoryPruneJob(historyRepo, cfg.HistoryRetentionDays)

	c := cron.New()
	if err := c.AddFunc("@daily", historyPruneJob.PruneHistory); err != nil {
		log.Fatalf("Failed to schedule history pruning: %v", err)
	}
	c.Start()
	defer c.Stop()

	//queue
	queueW := queue.NewQueue(publishService)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	queueW.Register(mux)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	server.Shutdown()
	log.Println("Server shutdown complete.")
}
