package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/abkawan/banking-core/internal/api"
	"github.com/abkawan/banking-core/internal/dispatch"
	"github.com/abkawan/banking-core/internal/queue"
)

func main() {
	// Get environment variables
	rabbitmqURI := getEnv("RABBITMQ_URI", "")
	port := getEnv("PORT", "8080")

	// Wire the core
	core := dispatch.NewContext()
	dispatcher := dispatch.NewDispatcher()

	// Connect to RabbitMQ when configured; the core runs fine without it
	if rabbitmqURI != "" {
		log.Println("Connecting to RabbitMQ...")
		relay, err := queue.NewRelay(rabbitmqURI)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer relay.Close()
		relay.Attach(core.Bus)
	}

	// Create router and set up routes
	router := mux.NewRouter()
	api.SetupRoutes(router, dispatcher, core)

	// Create server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server shut down successfully")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
