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

	"github.com/joho/godotenv"

	"github.com/recipe-catalog/internal/api"
	"github.com/recipe-catalog/internal/auth"
	"github.com/recipe-catalog/internal/config"
	"github.com/recipe-catalog/internal/janitor"
	"github.com/recipe-catalog/internal/rules"
	"github.com/recipe-catalog/internal/storage"

	_ "github.com/recipe-catalog/docs" // swagger docs
)

// @title Recipe Catalog API
// @version 1.0
// @description HTTP CRUD backend for a recipe catalog: registration, login, recipe management with owner/admin authorization, and JPEG image attachments.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description The token returned by POST /login

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	log.Println("Connecting to database...")
	db, err := storage.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running migrations...")
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(db)
	recipeRepo := storage.NewRecipeRepository(db)

	// Create default admin user if not exists
	ctx := context.Background()
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		admin, err := userRepo.CreateAdmin(ctx, "Admin", adminEmail, adminPassword)
		if err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user ready: %s", admin.Email)
		}
	}

	// Initialize token service and rule-set
	tokens := auth.NewTokenService(cfg.JWT.Secret)
	ruleSet := rules.New(userRepo, recipeRepo, tokens)

	// Start the uploads janitor
	jan := janitor.New(cfg.Uploads.Dir, recipeRepo)
	if err := jan.Start(cfg.Uploads.JanitorSchedule); err != nil {
		log.Fatalf("Failed to start uploads janitor: %v", err)
	}

	// Initialize API handlers and router
	handler := api.NewHandler(userRepo, recipeRepo, ruleSet, tokens, cfg.Uploads)
	router := api.NewRouter(handler, cfg.Uploads.Dir)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop the janitor
	jan.Stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
