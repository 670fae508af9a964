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

	"github.com/go-auth-trust/internal/config"
	"github.com/go-auth-trust/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-trust/internal/infrastructure/jwt"
	"github.com/go-auth-trust/internal/infrastructure/sns"
	transporthttp "github.com/go-auth-trust/internal/transport/http"
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

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	smsSender, err := sns.NewSender(cfg)
	if err != nil {
		log.Fatalf("SNS sender: %v", err)
	}

	deps := &transporthttp.Deps{
		AccountRepo:    dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		CredentialRepo: dynamo.NewCredentialRepo(dynamoClient, cfg.DynamoTables.Credentials),
		ChallengeRepo:  dynamo.NewChallengeRepo(dynamoClient, cfg.DynamoTables.Challenges),
		SMSSender:      smsSender,
		JWTProvider:    jwtProvider,
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
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
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
