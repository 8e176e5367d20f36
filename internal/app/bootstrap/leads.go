package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	appconfig "github.com/wolfman30/realestate-site/internal/config"
	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/observability/metrics"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

// Form backends accepted in FORM_BACKEND.
const (
	FormBackendNetlify    = "netlify"
	FormBackendFormSubmit = "formsubmit"
)

// BuildLeadStore opens the lead log selected by LEAD_STORE. The returned
// close func is never nil.
func BuildLeadStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.LogStore, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	switch cfg.LeadStore {
	case "", leads.BackendMemory:
		logger.Warn("lead log is in memory; leads are lost on restart")
		return leads.NewMemoryStore(), noop, nil

	case leads.BackendBolt:
		store, err := leads.OpenBoltStore(cfg.LeadLogPath, cfg.LeadLogKey)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("lead log opened", "backend", leads.BackendBolt, "path", cfg.LeadLogPath)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close lead log", "error", err)
			}
		}, nil

	case leads.BackendRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, noop, fmt.Errorf("bootstrap: LEAD_STORE=redis but redis at %q is unavailable", cfg.RedisAddr)
		}
		logger.Info("lead log opened", "backend", leads.BackendRedis, "key", cfg.LeadLogKey)
		return leads.NewRedisStore(client, cfg.LeadLogKey), func() { _ = client.Close() }, nil

	case leads.BackendPostgres:
		pool, err := BuildPostgresPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("lead log opened", "backend", leads.BackendPostgres)
		return leads.NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("bootstrap: unknown LEAD_STORE %q", cfg.LeadStore)
	}
}

// ErrSelfEndpoint is returned when the Netlify form would post back to this
// server with nothing in front of it to intercept the post.
var ErrSelfEndpoint = errors.New("bootstrap: form endpoint is this site's own origin")

// BuildEncoder picks the form backend payload shape. Netlify posts go to
// FORM_ENDPOINT, or to the public site root when FORM_EDGE_PROXY declares
// that Netlify's edge sits in front of this server.
func BuildEncoder(cfg *appconfig.Config) (leads.FormEncoder, error) {
	switch cfg.FormBackend {
	case "", FormBackendNetlify:
		endpoint := strings.TrimSpace(cfg.FormEndpoint)
		switch {
		case endpoint == "" && cfg.FormEdgeProxy && cfg.PublicBaseURL != "":
			endpoint = cfg.PublicBaseURL + "/"
		case endpoint == "":
			return nil, fmt.Errorf("bootstrap: netlify needs FORM_ENDPOINT, or FORM_EDGE_PROXY with PUBLIC_BASE_URL: %w", leads.ErrMissingEndpoint)
		case !cfg.FormEdgeProxy && sameOrigin(endpoint, cfg.PublicBaseURL):
			return nil, fmt.Errorf("%w: %s (set FORM_EDGE_PROXY when Netlify serves it)", ErrSelfEndpoint, endpoint)
		}
		return leads.NewNetlifyEncoder(endpoint, cfg.FormName)
	case FormBackendFormSubmit:
		return leads.NewFormSubmitEncoder(cfg.FormSubmitEmail, cfg.FormEndpoint, "")
	default:
		return nil, fmt.Errorf("bootstrap: unknown FORM_BACKEND %q", cfg.FormBackend)
	}
}

func sameOrigin(a, b string) bool {
	if b == "" {
		return false
	}
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) && strings.EqualFold(ua.Host, ub.Host)
}

// PipelineDeps are the pieces BuildPipeline cannot derive from config.
type PipelineDeps struct {
	Store      leads.LogStore
	Notifier   leads.Notifier
	Metrics    *metrics.LeadMetrics
	HTTPClient *http.Client
}

// BuildPipeline wires the lead pipeline from config.
func BuildPipeline(cfg *appconfig.Config, deps PipelineDeps, logger *logging.Logger) (*leads.Pipeline, error) {
	enc, err := BuildEncoder(cfg)
	if err != nil {
		return nil, err
	}
	backend := cfg.LeadStore
	if backend == "" {
		backend = leads.BackendMemory
	}
	return leads.NewPipeline(leads.PipelineConfig{
		Encoder:       enc,
		Submitter:     leads.NewHTTPSubmitter(deps.HTTPClient, cfg.FormSubmitTimeout, logger),
		Store:         deps.Store,
		StoreBackend:  backend,
		Notifier:      deps.Notifier,
		Metrics:       deps.Metrics,
		Logger:        logger,
		DefaultSource: cfg.LeadSource,
	})
}
