package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"qrscan-go/pkg/api"
	"qrscan-go/pkg/config"
	"qrscan-go/pkg/decoder"
	"qrscan-go/pkg/scanner"
	"qrscan-go/pkg/webhook"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize scanner sessions
	manager := scanner.NewManager(scanner.Options{
		Cooldown:   cfg.Cooldown(),
		WebhookURL: cfg.Webhook.DefaultURL,
		Live: decoder.LiveConfig{
			FPS:       cfg.Decoder.FPS,
			BoxWidth:  cfg.Decoder.BoxWidth,
			BoxHeight: cfg.Decoder.BoxHeight,
		},
	}, decoder.New(), webhook.NewClient(cfg.WebhookTimeout()))
	defer manager.Close()

	// Initialize router
	router := api.NewRouter(manager, api.RouterOptions{
		AllowedOrigins: cfg.API.AllowedOrigins,
	})

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("API server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("%v", err)
	}

	log.Println("server exited")
}
