// Package web renders the agent's single-page site with gomponents.
package web

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/json"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/seo"
	"github.com/wolfman30/realestate-site/internal/site"
)

// PageView is the per-request part of a render.
type PageView struct {
	Form       FormView
	Newsletter NewsletterView
	// Dev adds the diagnostics section; Base is the origin the checks run against.
	Dev  bool
	Base string
}

// maxOriginHeads caps the per-origin head cache used without a fixed head.
const maxOriginHeads = 8

// Renderer renders the page for one profile and head.
type Renderer struct {
	profile  *site.Profile
	head     *seo.Head
	routes   []site.Route
	minifier *minify.M
	now      func() time.Time

	mu    sync.Mutex
	heads map[string]*seo.Head
}

// NewRenderer builds a renderer. head should already carry the applied site
// metadata; a nil head makes every render build its metadata against the
// view's Base instead.
func NewRenderer(profile *site.Profile, head *seo.Head) *Renderer {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`[/+]json$`), json.Minify)

	return &Renderer{
		profile:  profile,
		head:     head,
		routes:   site.Routes(),
		minifier: m,
		now:      time.Now,
		heads:    make(map[string]*seo.Head),
	}
}

func (r *Renderer) headFor(base string) *seo.Head {
	if r.head != nil {
		return r.head
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.heads[base]; ok {
		return h
	}
	h := seo.NewHead()
	if err := seo.Apply(h, seo.SiteSnapshot(r.profile, base, r.routes)); err != nil {
		return seo.NewHead()
	}
	if len(r.heads) < maxOriginHeads {
		r.heads[base] = h
	}
	return h
}

// Page builds the full document node.
func (r *Renderer) Page(view PageView) g.Node {
	p := r.profile
	var diagnostics g.Node
	if view.Dev {
		diagnostics = diagnosticsSection(RunChecks(p, view.Base))
	}
	return layout(r.headFor(view.Base),
		navBar(p, r.routes),
		Main(
			heroSection(p),
			valueProps(p),
			listingsSection(p),
			processSection(p),
			blogSection(p),
			serviceAreasSection(p),
			contactSection(p, view.Form),
			diagnostics,
		),
		footerSection(p, r.routes, r.now().Year(), view.Newsletter),
	)
}

// NotFoundPage builds the 404 document. Section links point back at the
// home page since the fragments live there.
func (r *Renderer) NotFoundPage(base string) g.Node {
	routes := make([]site.Route, len(r.routes))
	for i, rt := range r.routes {
		routes[i] = site.Route{Path: "/" + rt.Path, Label: rt.Label}
	}
	return layout(r.headFor(base),
		navBar(r.profile, routes),
		Main(
			Section(
				ID("not-found"),
				Class("section"),
				Div(
					Class("wrap"),
					H1(g.Text("404 – Not Found")),
					P(Class("muted"), g.Text("Oops, that page doesn't exist.")),
					A(Class("btn"), Href("/"), g.Text("Back to the home page")),
				),
			),
		),
		footerSection(r.profile, routes, r.now().Year(), NewsletterView{}),
	)
}

// RenderNotFound writes the minified 404 page to w.
func (r *Renderer) RenderNotFound(w io.Writer, base string) error {
	return r.minifyNode(w, r.NotFoundPage(base))
}

// Render writes the minified page to w.
func (r *Renderer) Render(w io.Writer, view PageView) error {
	return r.minifyNode(w, r.Page(view))
}

func (r *Renderer) minifyNode(w io.Writer, n g.Node) error {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return fmt.Errorf("web: render page: %w", err)
	}
	if err := r.minifier.Minify("text/html", w, &buf); err != nil {
		return fmt.Errorf("web: minify page: %w", err)
	}
	return nil
}
