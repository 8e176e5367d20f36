package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/realestate-site/internal/http/middleware"
	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/sitemap"
	"github.com/wolfman30/realestate-site/internal/web"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	PagesHandler   *web.Handler
	LeadsHandler   *leads.Handler
	SitemapHandler *sitemap.Handler
	MetricsHandler http.Handler

	// LeadStore is probed by /health when set.
	LeadStore leads.LogStore

	CORSAllowedOrigins []string

	// FormLimiter throttles POST /contact and POST /api/leads per client.
	FormLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.LeadStore))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.SitemapHandler != nil {
		r.Get("/sitemap.xml", cfg.SitemapHandler.Sitemap)
		r.Get("/robots.txt", cfg.SitemapHandler.Robots)
	}

	if cfg.PagesHandler != nil {
		r.Get("/", cfg.PagesHandler.Home)
		r.NotFound(cfg.PagesHandler.NotFound)
	}

	// Form posts
	r.Group(func(forms chi.Router) {
		if cfg.FormLimiter != nil {
			forms.Use(httpmiddleware.RateLimit(cfg.FormLimiter))
		}
		if cfg.PagesHandler != nil {
			forms.Post("/contact", cfg.PagesHandler.Contact)
			forms.Post("/newsletter", cfg.PagesHandler.Newsletter)
		}
		if cfg.LeadsHandler != nil {
			forms.Post("/api/leads", cfg.LeadsHandler.CreateLead)
		}
	})

	return r
}

func healthHandler(store leads.LogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "ok"}
		status := http.StatusOK
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if _, err := store.Len(ctx); err != nil {
				resp["status"] = "degraded"
				resp["lead_log"] = "unavailable"
				status = http.StatusServiceUnavailable
			} else {
				resp["lead_log"] = "ok"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
