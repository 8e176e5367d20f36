package sitemap

import (
	"net/http"
	"strings"

	"github.com/wolfman30/realestate-site/pkg/logging"
)

// Handler serves the generated sitemap.xml and robots.txt.
type Handler struct {
	baseURL string
	routes  []string
	logger  *logging.Logger
}

// NewHandler creates a handler for the given routes. When baseURL is empty the
// origin of each request is used instead.
func NewHandler(baseURL string, routes []string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	cp := make([]string, len(routes))
	copy(cp, routes)
	return &Handler{
		baseURL: strings.TrimRight(baseURL, "/"),
		routes:  cp,
		logger:  logger,
	}
}

// Sitemap handles GET /sitemap.xml
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	base := h.base(r)
	body := BuildSitemap(base, h.routes)
	h.logger.Debug("sitemap served", "base", base, "entries", len(h.routes))
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	setDownload(w, r, "sitemap.xml")
	_, _ = w.Write([]byte(body))
}

// Robots handles GET /robots.txt
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	body := BuildRobots(h.base(r))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	setDownload(w, r, "robots.txt")
	_, _ = w.Write([]byte(body))
}

func (h *Handler) base(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return RequestOrigin(r)
}

// RequestOrigin reconstructs scheme://host for r, honouring X-Forwarded-Proto.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := r.Host
	if host == "" {
		host = "example.com"
	}
	return scheme + "://" + host
}

func setDownload(w http.ResponseWriter, r *http.Request, filename string) {
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
}
