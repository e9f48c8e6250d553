package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coolarec/spooling/internal/alerts"
	"github.com/coolarec/spooling/internal/archive"
	"github.com/coolarec/spooling/internal/config"
	"github.com/coolarec/spooling/internal/events"
	"github.com/coolarec/spooling/internal/facade"
	"github.com/coolarec/spooling/internal/handlers"
	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/kafka"
	"github.com/coolarec/spooling/internal/logger"
	"github.com/coolarec/spooling/internal/middleware"
	"github.com/coolarec/spooling/internal/nospool"
	"github.com/coolarec/spooling/internal/pipeline"
	"github.com/coolarec/spooling/internal/printer"
	"github.com/coolarec/spooling/internal/registry"
	"github.com/coolarec/spooling/internal/render"
)

func main() {
	cfg := config.FromEnv()
	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("main")

	// Startup precondition: ./fonts must exist (spec.md §6's filesystem
	// contract). Fatal, non-zero exit if absent.
	if _, err := os.Stat(cfg.FontsDir); err != nil {
		fmt.Fprintf(os.Stderr, "fonts directory %q is required but missing: %v\n", cfg.FontsDir, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("output_dir", cfg.OutputDir).Msg("failed to create output directory")
	}

	store, err := archive.NewFileStore(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize archive store")
	}
	defer store.Close()

	evtPool := buildEventPool(cfg)
	if evtPool != nil {
		evtPool.Start()
		defer evtPool.Stop()
	}

	renderer := render.NewGoFPDFRenderer(cfg.FontsDir, cfg.OutputDir)
	pr := printer.New(renderer, cfg.RenderLatency)
	reg := registry.New()

	var svc facade.Service
	switch cfg.Mode {
	case config.ModeNoSpool:
		reject := alerts.NewRejectTracker(alerts.NewThresholdEngine(), alerts.Rule{
			Name:      "printer_busy_reject_rate",
			Threshold: cfg.Alert.RejectRateThreshold,
		}, "nospool")
		svc = nospool.New(pr, reg, store, evtPool, reject)
		log.Info().Msg("running in no-spool mode")
	default:
		reject := alerts.NewRejectTracker(alerts.NewThresholdEngine(), alerts.Rule{
			Name:      "input_buffer_reject_rate",
			Threshold: cfg.Alert.RejectRateThreshold,
		}, "pipeline")
		pl := pipeline.New(pipeline.Capacities{
			InputBuffer:  cfg.Capacities.InputBuffer,
			InputWell:    cfg.Capacities.InputWell,
			OutputWell:   cfg.Capacities.OutputWell,
			OutputBuffer: cfg.Capacities.OutputBuffer,
		}, pr, reg, store, evtPool, reject)
		pl.Start()
		svc = pl
		log.Info().Msg("running in spool mode")
	}

	h := handlers.New(svc, cfg.OutputDir)
	mux := http.NewServeMux()
	mux.HandleFunc("/print", h.Print)
	mux.HandleFunc("/status", h.Status)
	mux.HandleFunc("/get_active_id", h.ActiveIDs)
	mux.HandleFunc("/count_task", h.CountTask)
	mux.HandleFunc("/get_job_info", h.JobInfo)
	mux.HandleFunc("/get_all_info", h.AllInfo)
	mux.HandleFunc("/download_file", h.DownloadFile)
	mux.HandleFunc("/download_all", h.DownloadAll)
	mux.Handle("/metrics", promhttp.Handler())

	handler := middleware.Chain(mux, middleware.Recovery, middleware.Logging)

	server := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: handler,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.BindAddr).Msg("spool server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errChan:
		log.Error().Err(err).Msg("server error")
	}

	_ = server.Close()
	submitted, completed := job.Stats()
	log.Info().Uint64("total_submitted", submitted).Uint64("total_completed", completed).Msg("shutdown complete")
}

func buildEventPool(cfg *config.Config) *events.Pool {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NewPool(events.Config{
			Publisher: events.NoopPublisher{},
			EventChan: make(chan job.Event, 1),
		})
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Producer)
	if err != nil {
		logger.WithComponent("main").Warn().Err(err).Msg("failed to create kafka producer, falling back to noop event sink")
		return events.NewPool(events.Config{
			Publisher: events.NoopPublisher{},
			EventChan: make(chan job.Event, 1),
		})
	}

	return events.NewPool(events.Config{
		Publisher: producer,
		EventChan: make(chan job.Event, 256),
		Workers:   2,
		BatchSize: cfg.Kafka.Producer.BatchSize,
	})
}
