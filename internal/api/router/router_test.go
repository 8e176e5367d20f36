package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpmiddleware "github.com/wolfman30/realestate-site/internal/http/middleware"
	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/observability/metrics"
	"github.com/wolfman30/realestate-site/internal/seo"
	"github.com/wolfman30/realestate-site/internal/site"
	"github.com/wolfman30/realestate-site/internal/sitemap"
	"github.com/wolfman30/realestate-site/internal/web"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

type noopSubmitter struct{}

func (noopSubmitter) Submit(context.Context, string, url.Values) error { return nil }

type brokenStore struct{ *leads.MemoryStore }

func (brokenStore) Len(context.Context) (int, error) { return 0, errors.New("down") }

type testRouter struct {
	http.Handler
	store *leads.MemoryStore
}

func newTestRouter(t *testing.T, mutate func(*Config)) testRouter {
	t.Helper()

	logger := logging.Discard()
	profile := site.Default()
	base := "https://example.com"

	head := seo.NewHead()
	if err := seo.Apply(head, seo.SiteSnapshot(profile, base, site.Routes())); err != nil {
		t.Fatalf("apply metadata: %v", err)
	}

	reg := prometheus.NewRegistry()
	enc, err := leads.NewNetlifyEncoder(base+"/", "contact")
	if err != nil {
		t.Fatal(err)
	}
	store := leads.NewMemoryStore()
	pipeline, err := leads.NewPipeline(leads.PipelineConfig{
		Encoder:   enc,
		Submitter: noopSubmitter{},
		Store:     store,
		Metrics:   metrics.NewLeadMetrics(reg),
		Logger:    logger,
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := &Config{
		Logger:         logger,
		PagesHandler:   web.NewHandler(web.NewRenderer(profile, head), pipeline, base, logger),
		LeadsHandler:   leads.NewHandler(pipeline, logger),
		SitemapHandler: sitemap.NewHandler(base, site.RoutePaths(), logger),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		LeadStore:      store,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return testRouter{Handler: New(cfg), store: store}
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" || resp["lead_log"] != "ok" {
		t.Errorf("unexpected health response %v", resp)
	}
}

func TestRouterHealthReportsBrokenStore(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.LeadStore = brokenStore{leads.NewMemoryStore()}
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestRouterSitemapAndRobots(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got := strings.Count(rr.Body.String(), "<url>"); got != 6 {
		t.Fatalf("expected 6 url entries, got %d", got)
	}
	if rr.Header().Get("Content-Disposition") != "" {
		t.Fatal("plain GET should not force a download")
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/robots.txt?download=1", nil))
	if got := rr.Body.String(); got != "User-agent: *\nAllow: /\nSitemap: https://example.com/sitemap.xml" {
		t.Fatalf("unexpected robots body %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="robots.txt"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestRouterServesPage(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `id="contact"`) {
		t.Fatal("expected contact section in page")
	}
}

func TestRouterCreateLeadAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	body, _ := json.Marshal(map[string]string{
		"name":    "Jane",
		"email":   "jane@example.com",
		"message": "Hello",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	if n, _ := router.store.Len(context.Background()); n != 1 {
		t.Fatalf("expected one lead logged, got %d", n)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), `realestate_leads_submissions_total{outcome="success"} 1`) {
		t.Fatalf("expected success counter in metrics output:\n%s", rr.Body.String())
	}
}

func TestRouterContactForm(t *testing.T) {
	router := newTestRouter(t, nil)

	form := url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "message": {"Hello"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if n, _ := router.store.Len(context.Background()); n != 1 {
		t.Fatalf("expected one lead logged, got %d", n)
	}
}

func TestRouterRateLimitsForms(t *testing.T) {
	limiter := httpmiddleware.NewRateLimiter(0.001, 1)
	t.Cleanup(limiter.Close)
	router := newTestRouter(t, func(cfg *Config) { cfg.FormLimiter = limiter })

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := post(); code != http.StatusBadRequest {
		t.Fatalf("first post should reach validation, got %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("second post should be limited, got %d", code)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("page reads are not rate limited, got %d", rr.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.CORSAllowedOrigins = []string{"https://landing.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://landing.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://landing.example.com" {
		t.Fatal("expected allow origin header")
	}
}

func TestRouterNotFoundRendersSitePage(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/listings/123", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "404 – Not Found") {
		t.Fatalf("expected site 404 page, got %q", rr.Body.String())
	}
}

func TestRouterNewsletter(t *testing.T) {
	router := newTestRouter(t, nil)

	form := url.Values{"email": {"reader@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}
