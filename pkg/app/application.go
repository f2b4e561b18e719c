package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"rinkside/pkg/config"
	"rinkside/pkg/contracts"
	"rinkside/pkg/middleware"
)

// BackgroundTask is a long-running worker (sweeper, consumer) that exits
// when its context is cancelled.
type BackgroundTask struct {
	Name string
	Run  func(ctx context.Context)
}

type Application struct {
	cfg            *config.Config
	server         *http.Server
	rateLimiter    *middleware.ClientRateLimiter
	healthHandler  http.Handler
	apiHandler     http.Handler
	webhookHandler http.Handler
	webhookPath    string
	background     []BackgroundTask
	closers        []func() error
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetHealth mounts /health and /ready with a minimal middleware chain so
// probes are never rate limited or size capped.
func (a *Application) SetHealth(handler contracts.Handler) {
	router := httprouter.New()
	handler.RegisterRoutes(router)

	var h http.Handler = router
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.healthHandler = h
}

// SetAPI mounts the public API behind the full middleware chain.
func (a *Application) SetAPI(handlers ...contracts.Handler) {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.RemoteAddrExtractor,
		a.cfg.Log,
	)

	var h http.Handler = router
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.ClientRateLimit(a.rateLimiter)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.apiHandler = h
}

// SetWebhook mounts the payment callback on its own chain: signature
// verification instead of rate limiting, so gateway redeliveries are
// never throttled, and rejection happens before any handler runs.
func (a *Application) SetWebhook(path string, handler contracts.Handler) {
	router := httprouter.New()
	handler.RegisterRoutes(router)

	var h http.Handler = router
	h = middleware.GatewaySignatureVerification(a.cfg.GatewayWebhookSecret, a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.webhookHandler = h
	a.webhookPath = path
}

// AddBackground registers a worker started with Run and stopped during
// graceful shutdown.
func (a *Application) AddBackground(task BackgroundTask) {
	a.background = append(a.background, task)
}

// AddCloser registers a resource closed during graceful shutdown.
func (a *Application) AddCloser(closeFn func() error) {
	a.closers = append(a.closers, closeFn)
}

func (a *Application) buildServer() {
	mux := http.NewServeMux()
	if a.healthHandler != nil {
		mux.Handle("/health", a.healthHandler)
		mux.Handle("/ready", a.healthHandler)
	}
	if a.webhookHandler != nil {
		mux.Handle(a.webhookPath, a.webhookHandler)
	}
	if a.apiHandler != nil {
		mux.Handle("/", a.apiHandler)
	}

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	a.buildServer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, task := range a.background {
		wg.Add(1)
		go func(task BackgroundTask) {
			defer wg.Done()
			a.cfg.Log.Info("Background worker started", "worker", task.Name)
			task.Run(ctx)
			a.cfg.Log.Info("Background worker stopped", "worker", task.Name)
		}(task)
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown(cancel, &wg)
	}
}

func (a *Application) gracefulShutdown(cancel context.CancelFunc, wg *sync.WaitGroup) {
	a.cfg.Log.Info("Starting graceful shutdown...")

	cancel()
	wg.Wait()

	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.cfg.Log.Error("Failed to close resource", "error", err)
		}
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}
