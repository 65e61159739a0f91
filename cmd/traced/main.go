// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command traced serves a DOT call graph over HTTP.
//
// The daemon loads a DOT graph file at startup and answers trace
// queries until stopped. With -watch it reloads the graph whenever
// the file changes.
//
// Usage:
//
//	go run ./cmd/traced -graph callgraph.dot
//	go run ./cmd/traced -graph callgraph.dot -port 9090 -watch
//	go run ./cmd/traced -config traced.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/trace/health
//
//	# Full graph
//	curl http://localhost:8080/v1/trace/graph | jq
//
//	# Enumerate call traces from a node
//	curl -X POST http://localhost:8080/v1/trace/paths \
//	  -H "Content-Type: application/json" \
//	  -d '{"start": "main"}'
//
//	# Prometheus metrics
//	curl http://localhost:8080/metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/tracecraft/pkg/logging"
	"github.com/AleutianAI/tracecraft/services/trace"
	"github.com/AleutianAI/tracecraft/services/trace/telemetry"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	graphFile := flag.String("graph", "", "DOT graph file to serve (overrides config)")
	watch := flag.Bool("watch", false, "Reload the graph when the file changes")
	configPath := flag.String("config", "", "Path to YAML config file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg, err := LoadConfig(*configPath, DefaultDaemonConfig())
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override file values
	if *port != 0 {
		cfg.Port = *port
	}
	if *graphFile != "" {
		cfg.GraphFile = *graphFile
	}
	if *watch {
		cfg.Watch = true
	}
	if *debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Structured JSON logging for the daemon
	logLevel := logging.LevelInfo
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   logLevel,
		LogDir:  cfg.LogDir,
		Service: "traced",
		JSON:    true,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// Telemetry
	telCfg := telemetry.DefaultConfig()
	telCfg.ServiceName = "traced"
	telCfg.ServiceVersion = trace.ServiceVersion
	if cfg.TraceExporter != "" {
		telCfg.TraceExporter = cfg.TraceExporter
	}
	if cfg.MetricExporter != "" {
		telCfg.MetricExporter = cfg.MetricExporter
	}
	if cfg.OTLPEndpoint != "" {
		telCfg.OTLPEndpoint = cfg.OTLPEndpoint
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown error", "error", err)
		}
	}()

	// Set Gin mode
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create service and load the initial graph
	svc := trace.NewService()
	if err := svc.LoadGraph(cfg.GraphFile); err != nil {
		logger.Error("Failed to load graph", "file", cfg.GraphFile, "error", err)
		os.Exit(1)
	}

	// Optional reload watcher
	if cfg.Watch {
		watcher, err := trace.NewGraphWatcher(svc, cfg.GraphFile, nil)
		if err != nil {
			logger.Error("Failed to create graph watcher", "error", err)
			os.Exit(1)
		}
		if err := watcher.Start(ctx); err != nil {
			logger.Error("Failed to start graph watcher", "error", err)
			os.Exit(1)
		}
		defer watcher.Stop()
		logger.Info("Watching graph file for changes", "file", cfg.GraphFile)
	}

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("traced"))
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	trace.RegisterRoutes(v1, trace.NewHandlers(svc))

	// Prometheus scrape endpoint
	if handler := telemetry.MetricsHandler(); handler != nil {
		router.GET("/metrics", gin.WrapH(handler))
	}

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down traced server")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	stats := svc.Stats()
	logger.Info("Starting traced server",
		"address", addr,
		"graph", cfg.GraphFile,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"watch", cfg.Watch)
	if err := router.Run(addr); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
