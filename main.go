package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcatalog "github.com/Zhima-Mochi/procurement-portal/internal/application/catalog"
	appinventory "github.com/Zhima-Mochi/procurement-portal/internal/application/inventory"
	appmetrics "github.com/Zhima-Mochi/procurement-portal/internal/application/metrics"
	appnotification "github.com/Zhima-Mochi/procurement-portal/internal/application/notification"
	apprequest "github.com/Zhima-Mochi/procurement-portal/internal/application/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/config"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/filestore"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/id"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/session"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/procurement-portal/internal/presentation/http"
	workerpresentation "github.com/Zhima-Mochi/procurement-portal/internal/presentation/worker"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)
	logger := zaplogger.New(baseLogger)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	counters, histograms := prometrics.Instruments(prometrics.New("", "", prometheus.DefaultRegisterer))
	tel := infraobs.New(oteltrace.New(cfg.ServiceName), logger, counters, histograms)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids := id.NewSequence()
	store, err := openStore(ctx, cfg, ids, logger)
	if err != nil {
		return err
	}

	// In-memory event bus; workers only observe, state changes are synchronous.
	bus := outbox.NewBus(logger)
	apprequest.NewAuditWorker(bus, tel).Start(workerpresentation.Middleware(logger, "request-audit"))
	appinventory.NewAlertWorker(bus, tel).Start(workerpresentation.Middleware(logger, "stock-alert"))
	bus.Start(ctx)

	// The mode is read when the engine is built, so it must be set first.
	gin.SetMode(ginMode(cfg.Env))
	srv := httppresentation.NewServer(httppresentation.Deps{
		Catalog: appcatalog.NewService(store.Products(), store, ids, tel),
		Requests: apprequest.NewService(apprequest.Repositories{
			Products:      store.Products(),
			Requests:      store.Requests(),
			Notifications: store.Notifications(),
		}, store, ids, bus, tel),
		Notifications:  appnotification.NewService(store.Notifications(), tel),
		Metrics:        appmetrics.NewService(store.Products(), store.Requests(), store, tel),
		Sessions:       session.NewManager(cfg.EmailDomain, logger),
		MetricsHandler: promhttp.Handler(),
	}, tel)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		systemLogger.Info("http_server_start", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			systemLogger.Error("http_server_shutdown_error", zap.Error(err))
		} else {
			systemLogger.Info("http_server_stopped")
		}
		bus.Stop(shutdownCtx)
		return err
	})
	return g.Wait()
}

func ginMode(env string) string {
	if env == "dev" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// openStore builds the store and fills it from DATA_DIR, or from the seed
// catalog when there is nothing persisted yet.
func openStore(ctx context.Context, cfg config.Config, ids *id.Sequence, logger observability.Logger) (*memory.Store, error) {
	if cfg.DataDir == "" {
		store := memory.NewStore()
		if err := seedCatalog(ctx, store, cfg.SeedFile, ids); err != nil {
			return nil, err
		}
		return store, nil
	}

	files, err := filestore.New(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	snap, found, err := files.Load(ctx)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore(memory.WithPersister(files))
	if !found {
		if err := seedCatalog(ctx, store, cfg.SeedFile, ids); err != nil {
			return nil, err
		}
		return store, nil
	}

	store.Restore(snap)
	for _, p := range snap.Products {
		ids.Observe(p.ID)
	}
	for _, r := range snap.Requests {
		ids.Observe(r.ID)
	}
	for _, n := range snap.Notifications {
		ids.Observe(n.ID)
	}
	return store, nil
}
