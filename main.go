package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"hospital-management/config"
	"hospital-management/controllers"
	"hospital-management/migrations"
	"hospital-management/repository"
	"hospital-management/routes"
	"hospital-management/security"
	"hospital-management/services"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := config.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	var revoker security.Revoker = security.NewMemoryRevoker()
	rdb, err := config.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		revoker = security.NewRedisRevoker(rdb)
	} else {
		log.Println("REDIS_ADDR not set, keeping revoked tokens in memory")
	}

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)

	auth, err := services.NewAuthService(doctorRepo, tokens, revoker, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatalf("Failed to set up authentication: %v", err)
	}
	doctors := services.NewDoctorService(doctorRepo)
	patients := services.NewPatientService(patientRepo)
	admin := services.NewAdminService(doctorRepo, patientRepo)

	r := gin.Default()

	// Add CORS middleware
	r.Use(security.CORSMiddleware(cfg.CORS.AllowOrigins))

	api := r.Group("/api")
	routes.HospitalRoutes(api, routes.Handlers{
		Health: controllers.NewHealthController(db),
		Auth:   controllers.NewAuthController(auth, doctors),
		Admin:  controllers.NewAdminController(admin),
		Doctor: controllers.NewDoctorController(doctors, patients),
	}, security.AuthMiddleware(tokens, revoker, auth))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Hospital management service starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down hospital management service...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Hospital management service forced to shutdown:", err)
	}

	log.Println("Hospital management service exited")
}
