package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"guest-registration-backend/config"
	"guest-registration-backend/controllers"
	"guest-registration-backend/routes"
	"guest-registration-backend/services"
	"guest-registration-backend/store"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set. Cannot gate the admin panel.")
	}

	// Connect database (config.ConnectDatabase sets config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Redis backs rate limiting only; nil means limits are off.
	rdb := config.NewRedisClient()
	if rdb != nil {
		log.Println("✅ Redis connected, rate limiting enabled.")
	}

	// Document stores: Cloudinary when configured, local disk as fallback.
	var remote services.DocumentStore
	if cfg.CloudinaryCloudName != "" {
		remote = services.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, cfg.CloudinaryFolder)
		log.Println("✅ Cloudinary document store configured.")
	} else {
		log.Println("⚠️  CLOUDINARY_CLOUD_NAME not set; documents will be stored locally only.")
	}
	local := services.NewLocalDocumentStore(cfg.UploadDir)

	// Initialize services
	guestStore := store.NewGormGuestStore(db)
	draftService := services.NewDraftService(cfg.DraftTTL, func(ref services.DocumentRef) {
		if err := local.Release(ref); err != nil {
			log.Printf("warning: failed to release local document %s: %v", ref.Name, err)
		}
	})
	uploadService := services.NewUploadService(draftService, remote, local, cfg.UploadAllowedTypes, cfg.UploadMaxBytes)
	registrationService := services.NewRegistrationService(draftService, guestStore)
	exportService := services.NewExportService()
	analyticsService := services.NewAnalyticsService(guestStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	draftService.StartJanitor(ctx, 5*time.Minute)

	// Initialize controllers
	registrationController := controllers.NewRegistrationController(draftService, uploadService, registrationService)
	adminController := controllers.NewAdminController(guestStore, exportService, analyticsService)
	authController := controllers.NewAuthController(db, cfg.JWTSecret, cfg.JWTTTL)

	// Build router
	router := routes.SetupRouter(cfg, rdb, registrationController, adminController, authController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
		// useful timeouts
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	<-ctx.Done()
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
