package web

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/seo"
	"github.com/wolfman30/realestate-site/internal/site"
	"github.com/wolfman30/realestate-site/internal/sitemap"
)

// Check is one builder self-test shown on the ?dev=1 page.
type Check struct {
	Name    string
	Pass    bool
	Details string
}

// RunChecks exercises the sitemap and robots builders against base and the
// canonical routes, plus a double metadata apply against a scratch head.
func RunChecks(p *site.Profile, base string) []Check {
	paths := site.RoutePaths()
	xml := sitemap.BuildSitemap(base, paths)
	robots := sitemap.BuildRobots(base)

	checks := []Check{
		{
			Name:    "sitemap contains <urlset>",
			Pass:    strings.Contains(xml, "<urlset"),
			Details: truncate(xml, 60),
		},
	}

	urls := strings.Count(xml, "<url>")
	checks = append(checks, Check{
		Name:    "sitemap url count matches",
		Pass:    urls == len(paths),
		Details: fmt.Sprintf("found %d, expected %d", urls, len(paths)),
	})

	checks = append(checks, Check{
		Name:    "robots includes sitemap line",
		Pass:    strings.Contains(robots, base+"/sitemap.xml"),
		Details: robots,
	})

	checks = append(checks, metadataCheck(p, base))
	return checks
}

func metadataCheck(p *site.Profile, base string) Check {
	c := Check{Name: "metadata apply is idempotent"}
	snap := seo.SiteSnapshot(p, base, site.Routes())
	head := seo.NewHead()
	if err := seo.Apply(head, snap); err != nil {
		c.Details = err.Error()
		return c
	}
	meta, blocks := head.Len()
	if err := seo.Apply(head, snap); err != nil {
		c.Details = err.Error()
		return c
	}
	meta2, blocks2 := head.Len()
	c.Pass = meta == meta2 && blocks == blocks2
	c.Details = fmt.Sprintf("%d meta tags, %d structured data blocks", meta2, blocks2)
	return c
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func diagnosticsSection(checks []Check) g.Node {
	return Section(
		ID("diagnostics"),
		Class("section"),
		Div(
			Class("wrap card"),
			H3(g.Text("Dev diagnostics")),
			Ul(
				Class("small"),
				g.Map(checks, func(c Check) g.Node {
					status, class := "PASS", "ok"
					if !c.Pass {
						status, class = "FAIL", "fail"
					}
					return Li(
						Class(class),
						Strong(g.Text(status)),
						g.Text(" "+c.Name),
						g.If(c.Details != "", Pre(Class("muted"), g.Text(c.Details))),
					)
				}),
			),
		),
	)
}
