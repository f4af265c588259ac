// Command catawayd runs the CatAway device-configuration backend: an HTTP
// API over the device settings, a change publisher feeding the message bus,
// and a web push worker pool for alert notifications.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cataway-backend/config"
	"cataway-backend/internal/api"
	"cataway-backend/internal/bus"
	"cataway-backend/internal/device"
	"cataway-backend/internal/notification"
	"cataway-backend/internal/publisher"
	"cataway-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "cataway-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Positional overrides: port and worker count.
	args := os.Args[1:]
	if len(args) >= 1 {
		if port, err := strconv.Atoi(args[0]); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if len(args) >= 2 {
		if workers, err := strconv.Atoi(args[1]); err == nil && workers > 0 {
			cfg.WorkerPool.Size = workers
		}
	}

	// The device state singleton and the store that guards it.
	state := device.NewState()
	settings := store.New(state)
	subs := store.NewSubscriptionStore()
	logger.Println("device state initialized")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Alert push notifications require VAPID keys; without them the
	// service still runs, just silently.
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}

		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, subs, webpushOptions)
		pool.Start(ctx)
		settings.OnAlert(func(alert string, severity device.Severity) {
			pool.Dispatch(notification.Transition{Alert: alert, Severity: severity})
		})
		logger.Printf("alert notification pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; alert notifications disabled")
	}

	// Initialize and run the settings publisher in the background. A broker
	// that cannot be reached disables this worker only, never the server.
	if cfg.Publisher.Enabled {
		busPub, err := bus.NewMQTTPublisher(cfg.Publisher.Broker, cfg.Publisher.ClientID, cfg.Publisher.Topic)
		if err != nil {
			logger.Printf("message bus unavailable, settings publisher disabled: %v", err)
		} else {
			defer busPub.Close()
			svc := publisher.NewService(settings, busPub, cfg.Publisher.Interval)
			go svc.Run(ctx)
		}
	}

	// Initialize router
	router := api.NewRouter(settings, subs, webpushOptions, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
