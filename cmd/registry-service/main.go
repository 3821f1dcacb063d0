package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careledger/registry/internal/audit"
	"github.com/careledger/registry/internal/gateway"
	"github.com/careledger/registry/internal/registry"
	"github.com/careledger/registry/pkg/config"
	"github.com/careledger/registry/pkg/logger"
	"github.com/careledger/registry/pkg/types"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting registry service")

	promRegistry := prometheus.NewRegistry()

	// Initialize audit indexer
	auditIndex := audit.NewIndexer(cfg.Audit.BufferSize, promRegistry, log)
	defer auditIndex.Close()

	// Initialize registry core with the bootstrap administrator
	core, err := registry.New(types.Principal(cfg.Registry.AdminPrincipal), auditIndex, log)
	if err != nil {
		log.WithError(err).Error("Failed to create registry")
		os.Exit(1)
	}

	// Initialize gateway
	gw := gateway.NewService(&gateway.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		JWTSecret:    cfg.JWT.SecretKey,
		JWTIssuer:    cfg.JWT.Issuer,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, core, auditIndex, promRegistry, log)

	// Start server
	go func() {
		if err := gw.Start(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Gateway server failed")
			os.Exit(1)
		}
	}()

	log.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Registry service started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down registry service")
	if err := gw.Stop(); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
