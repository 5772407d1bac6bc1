package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"labourline/internal/config"
	"labourline/internal/microservices/notificator"
	"labourline/internal/microservices/sweeper"
	"labourline/internal/microservices/tracker"
	"labourline/internal/microservices/work"
	"labourline/pkg/logger"
)

func main() {
	mode := flag.String("mode", "", "work-service | tracking-service | notification-subscriber | expiry-sweeper")
	port := flag.String("port", "", "http port for services that expose HTTP")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}).
		With().Str("mode", *mode).Logger()
	logger.SetGlobalLogger(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "work-service":
		if *port == "" {
			*port = "3000"
		}
		err = work.Run(ctx, cfg, *port, log)
	case "tracking-service":
		if *port == "" {
			*port = "3002"
		}
		err = tracker.Run(ctx, cfg, *port, log)
	case "notification-subscriber":
		err = notificator.Run(ctx, cfg, log)
	case "expiry-sweeper":
		err = sweeper.Run(ctx, cfg, log)
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: work-service | tracking-service | notification-subscriber | expiry-sweeper")
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Msg("service exited with error")
		os.Exit(1)
	}
}
