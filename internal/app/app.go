package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/receipt"
	"github.com/xenking/pizzaria/internal/handler"
	"github.com/xenking/pizzaria/internal/messaging/kafka"
	"github.com/xenking/pizzaria/internal/storage/postgres"
	"github.com/xenking/pizzaria/pkg/health"
	"github.com/xenking/pizzaria/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	rule, err := cfg.DiscountRule()
	if err != nil {
		return errors.Wrap(err, "discount rule")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	defer healthSvc.Stop()

	// Repositories.
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Domain services.
	opts := []order.Option{
		order.WithTracerProvider(m.TracerProvider()),
		order.WithMeterProvider(m.MeterProvider()),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return errors.Wrap(err, "create order event publisher")
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				lg.Warn("Close order event publisher", zap.Error(err))
			}
		}()
		opts = append(opts, order.WithEventPublisher(publisher))
		lg.Info("Publishing order events",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	orderService := order.NewService(order.Repositories{
		Customers: customerRepo,
		Products:  productRepo,
		Orders:    orderRepo,
		Receipts:  receiptRepo,
		Tx:        postgres.NewTransactor(pool),
	}, rule, receipt.NewRenderer(cfg.Receipt.StoreName, loc), opts...)

	// HTTP handlers.
	h := handler.NewHandler(handler.Deps{
		Customers: customerRepo,
		Products:  productRepo,
		Orders:    orderRepo,
		Receipts:  receiptRepo,
		Reports:   reportRepo,
		Placer:    orderService,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(
			httpmiddleware.Wrap(mux, middlewares(cfg, zctx.From(ctx))...),
			"pizzaria-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}
	healthSvc.SetReady(true)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	// Graceful shutdown: wait for cancellation, drain, then stop.
	g.Go(func() error {
		<-gCtx.Done()
		healthSvc.SetReady(false)
		if ctx.Err() != nil {
			lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
			time.Sleep(cfg.Graceful.ReadinessDelay)
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// middlewares returns the request chain, outermost first. The logger is
// injected ahead of LogRequests and Recovery so both log through it, and
// Recovery sits inside LogRequests so recovered panics are logged as 500s.
func middlewares(cfg *Config, lg *zap.Logger) []httpmiddleware.Middleware {
	return []httpmiddleware.Middleware{
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.LogRequests(),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins: cfg.CORS.Origins,
			AllowHeaders: []string{"Content-Type", httpmiddleware.HeaderRequestID},
			MaxAge:       86400,
		}),
	}
}
