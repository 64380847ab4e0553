package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go-produce-analyzer/internal/config"
	"go-produce-analyzer/internal/container"
	"go-produce-analyzer/internal/logger"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		// Logger level is config-driven, so config failures use the
		// bootstrap logger
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address":          cfg.ServerAddress(),
			"provider":         cfg.Provider,
			"mode":             c.Service().Mode(),
			"default_language": cfg.DefaultLanguage,
			"blob_source":      cfg.AzureConfigured(),
		}).Info("Produce analysis server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.WithField("signal", sig.String()).Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Forced shutdown")
	}

	logger.WithField("address", cfg.ServerAddress()).Info("Server stopped")
}
