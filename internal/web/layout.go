package web

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/seo"
)

const styles = `
:root { --ink: #111; --muted: #555; --line: #e5e5e5; --bg: #fafaf9; }
* { box-sizing: border-box; }
body { margin: 0; font-family: ui-sans-serif, system-ui, sans-serif; color: var(--ink); background: #fff; }
h1, h2, h3, .serif { font-family: Georgia, "Times New Roman", serif; font-weight: 400; }
a { color: inherit; }
.wrap { max-width: 72rem; margin: 0 auto; padding: 0 1rem; }
.nav { position: sticky; top: 0; z-index: 40; background: rgba(255,255,255,.9); border-bottom: 1px solid var(--line); }
.nav .wrap { display: flex; justify-content: space-between; align-items: center; padding-top: .75rem; padding-bottom: .75rem; }
.nav-links { display: flex; gap: 1.5rem; font-size: .9rem; }
.nav-links a { text-decoration: none; color: #333; }
.section { padding: 4rem 0; }
.grid { display: grid; gap: 1.5rem; }
.grid-2 { grid-template-columns: repeat(auto-fit, minmax(18rem, 1fr)); }
.grid-3 { grid-template-columns: repeat(auto-fit, minmax(14rem, 1fr)); }
.grid-4 { grid-template-columns: repeat(auto-fit, minmax(11rem, 1fr)); }
.card { border: 1px solid var(--line); border-radius: 1.5rem; padding: 1.5rem; background: #fff; }
.dark { background: linear-gradient(135deg, #171717, #262626); color: #fff; }
.pill { display: inline-block; border: 1px solid var(--line); border-radius: 999px; padding: .25rem .75rem; font-size: .75rem; }
.muted { color: var(--muted); }
.small { font-size: .8rem; }
.btn { display: inline-block; padding: .75rem 1.25rem; border-radius: 1rem; border: 1px solid var(--ink); background: var(--ink); color: #fff; text-decoration: none; cursor: pointer; }
.btn-ghost { background: #fff; color: var(--ink); border-color: #ccc; }
.form { display: grid; gap: .75rem; }
.form input, .form textarea, .form select { width: 100%; padding: .5rem .75rem; border: 1px solid #ccc; border-radius: .75rem; font: inherit; }
.field-error { color: #b91c1c; font-size: .75rem; }
.ok { color: #15803d; }
.fail { color: #b91c1c; }
.honeypot { position: absolute; left: -10000px; }
.footer { border-top: 1px solid var(--line); padding: 2.5rem 0; font-size: .9rem; }
.frame { width: 100%; min-height: 40rem; border: 0; border-radius: 1rem; }
.frame-embed iframe { width: 100%; min-height: 40rem; border: 0; border-radius: 1rem; }
.newsletter { display: flex; gap: .5rem; margin-top: .5rem; }
.newsletter input { flex: 1; min-width: 0; }
`

// layout wraps body content in the document shell. The head carries whatever
// metadata was applied to h.
func layout(h *seo.Head, content ...g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				h.Nodes(),
				Link(Rel("sitemap"), Type("application/xml"), Href("/sitemap.xml")),
				StyleEl(g.Raw(styles)),
			),
			Body(
				g.Group(content),
			),
		),
	})
}
