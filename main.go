package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bmidash/internal/config"
	"bmidash/internal/container"
	"bmidash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(appConfig.Server.GinMode)

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	server, err := ui.NewServer(appContainer.Dashboard, appContainer.Sessions, ui.Options{
		SecureCookies: appConfig.Server.SecureCookies,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Printf("Server stopped with error: %v", err)
		os.Exit(1)
	}
}
