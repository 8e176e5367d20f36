package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/realestate-site/internal/api/router"
	"github.com/wolfman30/realestate-site/internal/app/bootstrap"
	appconfig "github.com/wolfman30/realestate-site/internal/config"
	httpmiddleware "github.com/wolfman30/realestate-site/internal/http/middleware"
	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/observability/metrics"
	"github.com/wolfman30/realestate-site/internal/seo"
	"github.com/wolfman30/realestate-site/internal/site"
	"github.com/wolfman30/realestate-site/internal/sitemap"
	"github.com/wolfman30/realestate-site/internal/web"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.NewWithOptions(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logger.Info("starting realestate-site server",
		"env", cfg.Env,
		"port", cfg.Port,
		"lead_store", cfg.LeadStore,
		"form_backend", cfg.FormBackend,
	)

	ctx := context.Background()
	handler, cleanup, err := setupServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FormSubmitTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		cleanup()
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupServer builds the full handler tree. cleanup releases the lead log
// and the rate limiter and is safe to call once.
func setupServer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	profile, err := site.Load(cfg.SiteConfig)
	if err != nil {
		return nil, nil, err
	}

	// Without a public base the page builds absolute metadata URLs from
	// each request's origin.
	var head *seo.Head
	if cfg.PublicBaseURL != "" {
		head = seo.NewHead()
		if err := seo.Apply(head, seo.SiteSnapshot(profile, cfg.PublicBaseURL, site.Routes())); err != nil {
			return nil, nil, fmt.Errorf("apply site metadata: %w", err)
		}
	} else {
		logger.Warn("PUBLIC_BASE_URL not set; metadata uses the request origin")
	}

	registry, metricsHandler := setupMetrics()

	store, closeStore, err := bootstrap.BuildLeadStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := bootstrap.BuildPipeline(cfg, bootstrap.PipelineDeps{
		Store:    store,
		Notifier: bootstrap.BuildNotifier(ctx, cfg, logger),
		Metrics:  metrics.NewLeadMetrics(registry),
	}, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.FormRateLimit, cfg.FormRateBurst)
	cleanup := func() {
		limiter.Close()
		closeStore()
	}

	r := router.New(&router.Config{
		Logger:             logger,
		PagesHandler:       web.NewHandler(web.NewRenderer(profile, head), pipeline, cfg.PublicBaseURL, logger),
		LeadsHandler:       leads.NewHandler(pipeline, logger),
		SitemapHandler:     sitemap.NewHandler(cfg.PublicBaseURL, site.RoutePaths(), logger),
		MetricsHandler:     metricsHandler,
		LeadStore:          store,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		FormLimiter:        limiter,
	})
	return r, cleanup, nil
}

func setupMetrics() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
