// Package main provides the trollwire binary: the relay server in front of
// the game logic engine, the interactive client, and the raw console client.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"trollwire/internal/client"
	"trollwire/internal/config"
	"trollwire/internal/observability"
	"trollwire/internal/relay"
	"trollwire/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults")
	mode := flag.String("mode", "", "override mode: server, client or console")
	host := flag.String("host", "", "override relay host (client roles)")
	port := flag.Int("port", 0, "override relay port")
	nick := flag.String("nick", "", "override nickname (client roles)")
	flag.Parse()

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	} else {
		cfg = config.Default()
	}

	if *mode != "" {
		cfg.Mode = *mode
	}
	if *host != "" {
		cfg.Client.Host = *host
	}
	if *port != 0 {
		cfg.Client.Port = *port
		cfg.Server.Port = *port
	}
	if *nick != "" {
		cfg.Client.Nick = *nick
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	switch cfg.Mode {
	case config.ModeServer:
		runServer(ctx, cfg, logger, start)
	case config.ModeClient:
		if err := client.RunShell(ctx, cfg.Client, os.Stdin, os.Stdout, logger); err != nil {
			logger.Fatal("client error", zap.Error(err))
		}
	case config.ModeConsole:
		if err := client.RunConsole(ctx, cfg.Client, os.Stdin, os.Stdout, logger); err != nil {
			logger.Fatal("console error", zap.Error(err))
		}
	}
}

func runServer(ctx context.Context, cfg config.Config, logger *zap.Logger, start time.Time) {
	engine, err := relay.Spawn(cfg.Engine, logger)
	if err != nil {
		logger.Fatal("spawning engine", zap.Error(err))
	}

	rly := relay.New(cfg.Server, engine, logger)

	lifecycle := server.NewLifecycle(logger)

	// Engine output keeps flowing while the relay shuts down, so the fan-out
	// loop stops last.
	lifecycle.Add("engine", &server.FuncService{
		StartFn: func() error {
			return rly.FanOut(engine.Stdout())
		},
		StopFn: func() {
			engine.Stop()
		},
	})
	lifecycle.Add("relay", &server.FuncService{
		StartFn: rly.ListenAndServe,
		StopFn:  rly.Stop,
	})

	logger.Info("relay initialized",
		zap.String("addr", cfg.Server.Addr()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
