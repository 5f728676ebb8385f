package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptdeck-backend/internal/agent"
	"promptdeck-backend/internal/config"
	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/handlers"
	"promptdeck-backend/internal/repository"
	"promptdeck-backend/internal/router"
	"promptdeck-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting PromptDeck Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	settingsRepo := repository.NewSettingsRepo(pool)
	projectRepo := repository.NewProjectRepo(pool)
	promptRepo := repository.NewPromptRepo(pool)
	documentRepo := repository.NewDocumentRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)

	// ──── Initialize Agent Service ────
	agentService := agent.NewService(
		settingsRepo,
		projectRepo,
		promptRepo,
		documentRepo,
		sessionRepo,
		messageRepo,
		redisClient,
	)
	log.Println("✓ Agent service initialized")

	// ──── Initialize Handlers ────
	projectHandler := handlers.NewProjectHandler(projectRepo, promptRepo, documentRepo, sessionRepo)
	promptHandler := handlers.NewPromptHandler(promptRepo)
	documentHandler := handlers.NewDocumentHandler(documentRepo)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, messageRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)
	agentHandler := handlers.NewAgentHandler(agentService, promptRepo, redisClient)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClient)
	log.Println("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		projectHandler,
		promptHandler,
		documentHandler,
		sessionHandler,
		settingsHandler,
		agentHandler,
		wsHub,
		cfg.FrontendURL,
		cfg.ChatRateLimit,
	)

	// No WriteTimeout: the chat endpoint holds its SSE response open for as
	// long as the model keeps streaming.
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ PromptDeck Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
