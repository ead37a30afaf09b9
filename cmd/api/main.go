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

	"github.com/fileshare-api/internal/application/identity"
	"github.com/fileshare-api/internal/application/transfer"
	"github.com/fileshare-api/internal/config"
	"github.com/fileshare-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/fileshare-api/internal/infrastructure/jwt"
	"github.com/fileshare-api/internal/infrastructure/localfs"
	s3infra "github.com/fileshare-api/internal/infrastructure/s3"
	"github.com/fileshare-api/internal/infrastructure/smtp"
	transporthttp "github.com/fileshare-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Every endpoint behind /file is gated by the session credential, so a
	// missing key pair is a hard startup failure rather than a degraded mode.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	var blobs transfer.BlobStore
	switch cfg.StorageDriver {
	case "s3":
		blobs = s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName)
	case "local":
		store, err := localfs.NewStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("local storage: %v", err)
		}
		blobs = store
	default:
		log.Fatalf("unknown STORAGE_DRIVER %q (want s3 or local)", cfg.StorageDriver)
	}

	mailer := smtp.NewMailer(cfg)

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		FileRepo:    dynamo.NewFileRepo(dynamoClient, cfg.DynamoTables.Files),
		Blobs:       blobs,
		Mailer:      mailer,
		JWTProvider: jwtProvider,
	}

	// Operations accounts have no signup path; seed one from the environment.
	if cfg.OpsEmail != "" && cfg.OpsPassword != "" {
		identitySvc := identity.NewService(deps.UserRepo, mailer, jwtProvider, cfg.AppBaseURL)
		if err := identitySvc.EnsureOperationsUser(context.Background(), cfg.OpsEmail, cfg.OpsPassword); err != nil {
			log.Fatalf("seed operations user: %v", err)
		}
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, storage=%s)", cfg.AppPort, cfg.AppEnv, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
