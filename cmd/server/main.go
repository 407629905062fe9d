package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"cooliehub/internal/audit"
	"cooliehub/internal/platform/config"
	"cooliehub/internal/platform/httpserver"
	"cooliehub/internal/platform/logger"
	platformmetrics "cooliehub/internal/platform/metrics"
	"cooliehub/internal/platform/middleware"
	"cooliehub/internal/receipts"
	receiptsmetrics "cooliehub/internal/receipts/metrics"
	"cooliehub/internal/receipts/notify"
	"cooliehub/internal/receipts/payment"
	"cooliehub/internal/receipts/service"
	"cooliehub/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, closeSnapshot, err := openSnapshot(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("ledger backend %s: %w", cfg.Ledger.Backend, err)
	}
	defer closeSnapshot()

	notifier, err := notify.New(ctx, cfg.SMS, log)
	if err != nil {
		return fmt.Errorf("sms notifier: %w", err)
	}

	auditInbox := make(chan audit.Event, 256)
	auditStore := audit.NewInMemoryStore()
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)

	reg := prometheus.DefaultRegisterer
	module := receipts.New(ctx, snap, payment.NewSimulated(payment.WithDelay(cfg.Payment.Delay)), log,
		service.WithAuditPublisher(audit.NewPublisher(audit.NewChannelSink(auditInbox))),
		service.WithMetrics(receiptsmetrics.NewWithRegistry(reg)),
		service.WithNotifier(notifier),
	)

	router := newRouter(log, platformmetrics.NewWithRegistry(reg), module)
	srv := httpserver.New(cfg.Addr, router)

	// The audit worker outlives the signal so requests still draining can emit.
	auditCtx, stopAudit := context.WithCancel(context.WithoutCancel(ctx))
	defer stopAudit()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting cooliehub",
			"addr", cfg.Addr,
			"ledger_backend", cfg.Ledger.Backend,
			"receipts", module.Ledger.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := auditWorker.Run(auditCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(log, cfg.ShutdownTimeout, srv, stopAudit, module.Ledger)
	})

	return g.Wait()
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type flusher interface {
	Flush(ctx context.Context) error
}

// shutdown drains HTTP, then stops the audit worker, then writes the ledger.
func shutdown(log *slog.Logger, timeout time.Duration, srv shutdowner, stopAudit context.CancelFunc, ledger flusher) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	stopAudit()
	if err := ledger.Flush(ctx); err != nil {
		log.Error("final ledger flush failed; latest receipts may be lost", "error", err)
		return err
	}
	return nil
}

func newRouter(log *slog.Logger, m *platformmetrics.Metrics, module *receipts.Module) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(log))
	r.Use(middleware.LatencyMiddleware(m))
	r.Use(middleware.Timeout(20 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"receipts":     module.Ledger.Len(),
			"ledger_dirty": module.Ledger.Dirty(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	module.Handler.Register(r)
	return r
}
