package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dmchat/internal/config"
	"dmchat/internal/httpserver"
	"dmchat/internal/security"
	"dmchat/internal/store/postgres"
	"dmchat/internal/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (this is ok in production)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, stores, err := openStores(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Security components
	tokenSvc := security.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	passwordHasher := security.NewPasswordHasher(0)

	// Build HTTP router
	router := httpserver.NewRouter(cfg, stores, tokenSvc, passwordHasher)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Starting dmchat server on %s (driver=%s)\n", cfg.HTTPAddr(), cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openStores opens the configured storage backend, runs its migrations and
// returns the repository bundle.
func openStores(cfg *config.Config) (*sql.DB, httpserver.Stores, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, httpserver.Stores{}, err
		}
		if err := sqlite.Migrate(db); err != nil {
			return nil, httpserver.Stores{}, err
		}
		return db, httpserver.Stores{
			Users:         sqlite.NewUserRepo(db),
			Messages:      sqlite.NewMessageRepo(db),
			Conversations: sqlite.NewConversationRepo(db),
			Recovery:      sqlite.NewRecoveryRepo(db),
		}, nil
	default:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, httpserver.Stores{}, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, httpserver.Stores{}, err
		}
		return db, httpserver.Stores{
			Users:         postgres.NewUserRepo(db),
			Messages:      postgres.NewMessageRepo(db),
			Conversations: postgres.NewConversationRepo(db),
			Recovery:      postgres.NewRecoveryRepo(db),
		}, nil
	}
}
