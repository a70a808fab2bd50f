// Package main is the entry point for the audit-quote API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"audit-quote/api"
	"audit-quote/internal/config"
	"audit-quote/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "Config file (JSON or YAML)")
	envFile := flag.String("env-file", ".env", "Dotenv file with secrets")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	config.LoadDotEnv(*envFile)

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("starting audit-quote server", zap.String("version", version), zap.String("address", cfg.Server.Address))
	if err := api.Run(ctx, version, cfg); err != nil {
		logging.Error("server stopped", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
