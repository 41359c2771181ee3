// Command wavecore-server wires the coordination core behind the
// dashboard HTTP API. Configuration is environment-driven:
//
//	WAVECORE_LISTEN_ADDR    listen address (default :8080)
//	WAVECORE_ADMIN_SECRET   shared admin password
//	WAVECORE_STORAGE_DRIVER memory|sqlite (default memory)
//	WAVECORE_SQLITE_PATH    sqlite location when driver=sqlite
//	WAVECORE_BLOB_DRIVER    fs|s3|memory (default fs)
//	WAVECORE_METRICS_DRIVER prometheus|expvar (default prometheus)
//	WAVECORE_TRACE_FILE     append service spans as JSON lines here
//	WAVECORE_SKIP_SEED      set to skip the startup dataset
package main

import (
	"context"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wavecore/internal/adapters/dashboard"
	"wavecore/internal/blob"
	"wavecore/internal/core"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		return err
	}

	resources, err := blob.Open(ctx)
	if err != nil {
		return err
	}

	options := []core.ServiceOption{
		core.WithLogger(core.NewSlogLogger(logger)),
		core.WithResourceStore(resources),
	}

	var registry *prometheus.Registry
	switch os.Getenv("WAVECORE_METRICS_DRIVER") {
	case "expvar":
		options = append(options, core.WithMetricsRecorder(core.NewExpvarRecorder("wavecore_service")))
	default:
		registry = prometheus.NewRegistry()
		metrics, err := core.NewPrometheusMetricsRecorder(registry)
		if err != nil {
			return err
		}
		options = append(options, core.WithMetricsRecorder(metrics))
	}

	if path := os.Getenv("WAVECORE_TRACE_FILE"); path != "" {
		traceFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = traceFile.Close() }()
		options = append(options, core.WithTracer(core.NewJSONTracer(traceFile)))
	}

	service := core.NewService(store, options...)
	gate := core.NewGate(store, core.WithAdminSecret(os.Getenv("WAVECORE_ADMIN_SECRET")))

	if os.Getenv("WAVECORE_SKIP_SEED") == "" {
		if err := service.Seed(ctx); err != nil {
			return err
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", dashboard.NewHandler(service, gate))
	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("/debug/vars", expvar.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := os.Getenv("WAVECORE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "storage", os.Getenv("WAVECORE_STORAGE_DRIVER"))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
