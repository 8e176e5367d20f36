package web

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/site"
)

// routeHref returns the href routes use for fragment, which carries a "/"
// prefix off the home page.
func routeHref(routes []site.Route, fragment string) string {
	for _, r := range routes {
		if strings.HasSuffix(r.Path, fragment) {
			return r.Path
		}
	}
	return fragment
}

func navBar(p *site.Profile, routes []site.Route) g.Node {
	return Header(
		Class("nav"),
		Div(
			Class("wrap"),
			A(Href(routeHref(routes, "#home")), g.Attr("style", "text-decoration:none"),
				Span(Class("serif"), g.Text(p.Agent.Brand)),
				g.Text(" "),
				Span(Class("small muted"), g.Text(p.Agent.Name)),
			),
			Nav(
				Class("nav-links"),
				Aria("label", "Sections"),
				g.Map(routes, func(r site.Route) g.Node {
					return A(Href(r.Path), g.Text(r.Label))
				}),
			),
		),
	)
}

func heroSection(p *site.Profile) g.Node {
	cs := p.Hero.CaseStudy
	return Section(
		ID("home"),
		Class("section"),
		Div(
			Class("wrap grid grid-2"),
			Div(
				g.If(p.Hero.Pill != "", Span(Class("pill"), g.Text(p.Hero.Pill))),
				H1(g.Text(p.Hero.Headline)),
				P(Class("muted"), g.Text(p.Hero.Body)),
				Div(
					A(Class("btn"), Href("#contact"), g.Text("Request pricing consult")),
					g.Text(" "),
					A(Class("btn btn-ghost"), Href("#listings"), g.Text("View active listings")),
				),
				P(Class("small muted"), g.Text(licenseLine(p.Agent))),
			),
			g.If(cs.Title != "",
				Div(
					Class("card dark"),
					Div(Class("small"), g.Text(cs.Label)),
					H3(g.Text(cs.Title)),
					P(Class("small"), g.Text(cs.Body)),
					Div(
						Class("grid grid-3 small"),
						g.Map(cs.Stats, func(s site.Stat) g.Node {
							return Div(Div(g.Text(s.Label)), Strong(g.Text(s.Value)))
						}),
					),
				),
			),
		),
	)
}

func licenseLine(a site.Agent) string {
	parts := []string{strings.TrimSpace(a.Name + " " + a.License)}
	if a.Broker != "" {
		parts = append(parts, strings.TrimSpace(a.Broker+" "+a.BrokerLicense))
	}
	return strings.Join(parts, " · ")
}

func blocks(items []site.Block) g.Node {
	return g.Map(items, func(b site.Block) g.Node {
		return Div(
			Class("card"),
			H3(g.Text(b.Title)),
			P(Class("small muted"), g.Text(b.Body)),
		)
	})
}

func valueProps(p *site.Profile) g.Node {
	return Section(
		Class("section"),
		Div(Class("wrap grid grid-3"), blocks(p.ValueProps)),
	)
}

func listingsSection(p *site.Profile) g.Node {
	var body g.Node
	switch {
	case p.Listings.HasEmbed():
		body = Div(Class("frame-embed"), g.Raw(p.Listings.Embed))
	case p.Listings.IDXURL != "":
		body = IFrame(
			Class("frame"),
			Src(p.Listings.IDXURL),
			Title("Active listings"),
			g.Attr("loading", "lazy"),
		)
	default:
		body = Div(
			Class("card"),
			P(Class("muted"), g.Text("The live listings feed is being connected. Ask for the current off-market and coming-soon list.")),
			A(Class("btn btn-ghost"), Href("#contact"), g.Text("Request the list")),
		)
	}
	return Section(
		ID("listings"),
		Class("section"),
		Div(
			Class("wrap"),
			H2(g.Text("Featured & active listings")),
			body,
		),
	)
}

func processSection(p *site.Profile) g.Node {
	steps := make([]g.Node, 0, len(p.Process))
	for i, step := range p.Process {
		steps = append(steps, Div(
			Class("card"),
			Div(Class("small muted"), g.Textf("Step %d", i+1)),
			H3(g.Text(step.Title)),
			P(Class("small muted"), g.Text(step.Body)),
		))
	}
	return Section(
		ID("process"),
		Class("section"),
		Div(
			Class("wrap"),
			H2(g.Text("How we work")),
			Div(Class("grid grid-2"), g.Group(steps)),
		),
	)
}

func blogSection(p *site.Profile) g.Node {
	return Section(
		ID("blog"),
		Class("section"),
		Div(
			Class("wrap"),
			H2(g.Text("Insights")),
			Div(
				Class("grid grid-2"),
				g.Map(p.Posts, func(post site.Post) g.Node {
					return Article(
						Class("card"),
						ID("blog/"+post.Slug),
						Div(Class("small muted"), g.Text(post.Date)),
						H3(g.Text(post.Title)),
						P(Class("small muted"), g.Text(post.Excerpt)),
					)
				}),
			),
		),
	)
}

func serviceAreasSection(p *site.Profile) g.Node {
	return Section(
		ID("service-areas"),
		Class("section"),
		Div(
			Class("wrap"),
			H2(g.Text("Service areas")),
			Div(
				Class("grid grid-3"),
				g.Map(p.ServiceAreas, func(a site.ServiceArea) g.Node {
					return Div(
						Class("card"),
						H3(g.Text(a.City)),
						Ul(Class("small muted"), g.Map(a.Neighborhoods, func(n string) g.Node {
							return Li(g.Text(n))
						})),
					)
				}),
			),
		),
	)
}

func footerSection(p *site.Profile, routes []site.Route, year int, nl NewsletterView) g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("wrap grid grid-4"),
			Div(
				Div(Class("serif"), g.Text(p.Agent.Brand)),
				P(Class("muted"), g.Text(licenseLine(p.Agent))),
				P(Class("muted"), g.Text(strings.Join(p.Agent.AreasServed, " · "))),
				A(Href(routeHref(routes, "#contact")), g.Text("Book a consult")),
			),
			Div(
				Strong(g.Text("Site")),
				Ul(g.Map(routes, func(r site.Route) g.Node {
					return Li(A(Href(r.Path), g.Text(r.Label)))
				})),
			),
			Div(
				Strong(g.Text("Legal")),
				Ul(
					Class("muted"),
					Li(g.Text("Equal Housing Opportunity.")),
					Li(g.Text("Information deemed reliable but not guaranteed.")),
					Li(g.Text(fmt.Sprintf("© %d %s. All rights reserved.", year, p.Agent.Name))),
				),
			),
			Div(
				Strong(g.Text("Brief updates")),
				P(Class("small muted"), g.Text("Occasional notes on San Diego & CA property. No fluff, no mass drip campaign.")),
				newsletterForm(nl),
			),
		),
	)
}
