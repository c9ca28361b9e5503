// Command annad is Anna's daemon: a local, host-resident assistant
// that answers natural-language questions about the machine it runs
// on by routing each query to a deterministic plan, executing a
// bounded set of read-only probes, parsing their output into typed
// evidence, and producing a grounded, verified answer.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/annassistant/annad/internal/audit"
	"github.com/annassistant/annad/internal/daemon"
	"github.com/annassistant/annad/internal/httpapi"
	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/rpc"
	"github.com/annassistant/annad/internal/specialist"
	"github.com/annassistant/annad/pkg/config"
	"github.com/annassistant/annad/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", version.AppName))
	slog.SetDefault(logger)

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Warn("could not load .env file, continuing with existing environment", slog.String("path", envPath), slog.String("error", err.Error()))
	} else {
		logger.Info("loaded environment file", slog.String("path", envPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		logger.Error("configuration error, refusing to start", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := probe.NewRegistry(probe.DefaultCatalog())
	if err := registry.ValidateBinaries(); err != nil {
		logger.Error("required probe binary missing, refusing to start", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var translator *specialist.Client
	if cfg.LLMGRPCAddr != "" {
		translator, err = specialist.NewClient(cfg.LLMGRPCAddr)
		if err != nil {
			logger.Error("could not build specialist client, continuing without a translator", slog.String("error", err.Error()))
			translator = nil
		} else {
			defer translator.Close()
		}
	}

	var pipeline *daemon.Pipeline
	if translator != nil {
		pipeline = daemon.NewPipeline(cfg, registry, translator)
	} else {
		pipeline = daemon.NewPipeline(cfg, registry, nil)
	}

	if cfg.AuditDSN != "" {
		persister, err := audit.Open(ctx, cfg.AuditDSN)
		if err != nil {
			logger.Error("audit persister unavailable, continuing without durable audit log", slog.String("error", err.Error()))
		} else {
			defer persister.Close()
			pipeline.SetPersister(persister)
		}
	}

	startedAt := time.Now()
	httpSrv := httpapi.NewServer(cfg, registry, pipeline.Store().Lookup, func() httpapi.Status {
		snap := pipeline.Store().Snapshot()
		snap.UptimeSeconds = int64(time.Since(startedAt).Seconds())
		return snap
	})

	rpcSrv := rpc.NewServer(
		func(ctx context.Context, requestID, text string, deadline time.Duration) any {
			return pipeline.Query(ctx, requestID, text, deadline)
		},
		func() any {
			return httpapi.Status{
				Version:       version.Full(),
				UptimeSeconds: int64(time.Since(startedAt).Seconds()),
			}
		},
	)

	socketPath := filepath.Join(cfg.RuntimeDir, "anna.sock")
	if err := rpcSrv.Listen(socketPath); err != nil {
		logger.Error("could not bind RPC socket, refusing to start", slog.String("path", socketPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("RPC socket listening", slog.String("path", socketPath))
		if err := rpcSrv.Serve(); err != nil {
			errCh <- err
		}
	}()

	if cfg.HTTPAddr != "" {
		go func() {
			logger.Info("ancillary HTTP surface listening", slog.String("addr", cfg.HTTPAddr))
			if err := httpSrv.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error, shutting down", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = rpcSrv.Shutdown()
	_ = httpSrv.Shutdown(shutdownCtx)
}
