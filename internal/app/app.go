package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/db"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/internal/session"
	"github.com/xenking/storefront/internal/storage/memory"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Server is the assembled storefront: catalog, session store, health probes
// and the HTTP handler chain.
type Server struct {
	cfg      *Config
	lg       *zap.Logger
	health   *health.Health
	sessions *session.Store
	http     *http.Server
}

// NewServer creates all dependencies. The returned server is not ready until
// Serve is called.
func NewServer(
	ctx context.Context,
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	cfg *Config,
) (*Server, error) {
	catalog, err := memory.LoadProductRepository(db.Products)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded", zap.Int("products", catalog.Len()))

	sessions := session.NewStore(session.Config{
		Max:        cfg.Sessions.Max,
		TTL:        cfg.Sessions.TTL,
		StrictCart: cfg.Cart.StrictMode,
	}, lg.Named("sessions"))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, func(context.Context) error {
		if catalog.Len() == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	})
	healthSvc.AddReadinessCheck("sessions", time.Second,
		health.CapacityCheck(sessions.Len, sessions.Capacity()),
	)

	h, err := handler.NewHandler(catalog, sessions, mp)
	if err != nil {
		return nil, errors.Wrap(err, "create handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	return &Server{
		cfg:      cfg,
		lg:       lg,
		health:   healthSvc,
		sessions: sessions,
		http: &http.Server{
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
			Addr:              cfg.Addr,
			Handler: httpmiddleware.Wrap(mux,
				httpmiddleware.InjectLogger(lg),
				httpmiddleware.Recovery(),
				httpmiddleware.CORS(httpmiddleware.CORSConfig{
					AllowOrigins:     cfg.CORS.Origins,
					AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
					AllowCredentials: cfg.CORS.AllowCredentials,
					MaxAge:           86400,
				}),
				httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
					Max:    cfg.RateLimit.Max,
					Window: cfg.RateLimit.Window,
				}),
				httpmiddleware.RequestID(),
				httpmiddleware.Instrument("storefront", tp, mp),
				httpmiddleware.LogRequests(),
			),
		},
	}, nil
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Health returns the probe registry.
func (s *Server) Health() *health.Health { return s.health }

// Serve listens on the configured address until ctx is done, then drains
// and shuts down.
func (s *Server) Serve(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.lg.Info("Server listening", zap.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		s.health.SetReady(true)
		<-gCtx.Done()

		// Fail readiness first so load balancers stop routing before the
		// listener closes.
		s.health.SetReady(false)
		s.lg.Info("Readiness set to false, draining",
			zap.Duration("delay", s.cfg.Graceful.ReadinessDelay),
		)
		time.Sleep(s.cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Graceful.ShutdownTimeout)
		defer cancel()

		s.lg.Info("Shutting down server", zap.Duration("timeout", s.cfg.Graceful.ShutdownTimeout))
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		s.lg.Info("Server stopped", zap.Int("sessions_dropped", s.sessions.Len()))
		return nil
	})

	return g.Wait()
}

// Run wires the application from cfg and serves until ctx is done.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.Bool("cart_strict", cfg.Cart.StrictMode),
	)

	srv, err := NewServer(ctx, lg, m.TracerProvider(), m.MeterProvider(), cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}
