package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/database"
	"github.com/gymledger/gymledger/internal/logging"
	"github.com/gymledger/gymledger/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("GYMLEDGER_LOG_LEVEL"))

	port := os.Getenv("GYMLEDGER_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("GYMLEDGER_DB_PATH")
	if dbPath == "" {
		dbPath = "gymledger.db"
	}

	secret := os.Getenv("GYMLEDGER_JWT_SECRET")
	if secret == "" {
		logger.Error("GYMLEDGER_JWT_SECRET is required")
		os.Exit(1)
	}

	tokenTTL := 24 * time.Hour
	if v := os.Getenv("GYMLEDGER_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("invalid GYMLEDGER_TOKEN_TTL", "value", v, "error", err)
			os.Exit(1)
		}
		tokenTTL = d
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := auth.NewTokenManager(secret, tokenTTL)
	srv := server.New(db, tokens, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Periodically drop expired rate limiter entries.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	go func() {
		fmt.Printf("GymLedger running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
