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

	"moxie-backend/internal/config"
	"moxie-backend/internal/database"
	"moxie-backend/internal/handlers"
	"moxie-backend/internal/router"
	"moxie-backend/internal/services"
	"moxie-backend/internal/session"
)

func main() {
	log.Println("🚀 Starting Moxie relay backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")
	if cfg.GroqAPIKey == "" {
		log.Println("! GROQ_API_KEY is not set; chat requests will fail until it is configured")
	}

	// ──── Step 2: Initialize Groq Client ────
	groqService := services.NewGroqService(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	log.Printf("✓ Groq client initialized (model %s)", cfg.GroqModel)

	// ──── Step 3: Initialize Session Mirror (optional) ────
	var sessionHandler *handlers.SessionHandler
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		sessionHandler = handlers.NewSessionHandler(session.NewRedisStore(redisClient))
		log.Println("✓ Redis connected (session mirror enabled)")
	} else {
		log.Println("– Session mirror disabled (REDIS_URL not set)")
	}

	// ──── Step 4: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(cfg.GroqAPIKey, cfg.SystemPrompt, groqService)
	r := router.New(chatHandler, sessionHandler, cfg.FrontendURL, cfg.ChatRateLimitPerMin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	log.Printf("✓ Moxie backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: POST http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
