package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bondbrightly/bond-server/internal/config"
	httpHandler "github.com/bondbrightly/bond-server/internal/delivery/http"
	"github.com/bondbrightly/bond-server/internal/delivery/ws"
	"github.com/bondbrightly/bond-server/internal/middleware"
	"github.com/bondbrightly/bond-server/internal/store"
	"github.com/bondbrightly/bond-server/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()

	// Configuring Logging
	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the store
	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Store init error: %v", err)
	}
	defer st.Close()

	// Initialize the realtime core. Presence lives only in this process
	// and starts empty on every boot.
	registry := ws.NewRegistry()
	rooms := ws.NewRoomRouter()
	gateway := ws.NewGateway(registry, rooms, st)
	matcher := usecase.NewAnswerMatcher(st)

	handler := httpHandler.NewHandler(st, matcher, gateway, cfg.AllowedOrigins)

	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, 10)

	router := httpHandler.NewRouter(handler, apiLimiter, wsLimiter)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Bond server running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
