// Package sitemap builds the sitemap.xml and robots.txt artifacts for the
// single-page site and serves them over HTTP.
package sitemap

import (
	"encoding/xml"
	"strings"
)

const (
	// Namespace is the sitemaps.org schema the urlset declares.
	Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

	ChangeFreq = "weekly"
	Priority   = "0.8"
)

// URLSet is the <urlset> root of a sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is a single <url> entry.
type URL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Entries maps routes onto sitemap entries, one per route and in input order.
func Entries(base string, routes []string) []URL {
	urls := make([]URL, 0, len(routes))
	for _, route := range routes {
		urls = append(urls, URL{
			Loc:        base + "/" + route,
			ChangeFreq: ChangeFreq,
			Priority:   Priority,
		})
	}
	return urls
}

// BuildSitemap renders a sitemap document for base and the ordered route
// identifiers. The base is used as given; only XML escaping is applied.
func BuildSitemap(base string, routes []string) string {
	set := URLSet{XMLNS: Namespace, URLs: Entries(base, routes)}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		// URLSet holds only strings; encoding cannot fail.
		panic("sitemap: marshal urlset: " + err.Error())
	}
	var b strings.Builder
	b.Grow(len(xml.Header) + len(out))
	b.WriteString(xml.Header)
	b.Write(out)
	return b.String()
}

// BuildRobots renders a robots.txt that allows every crawler and points at
// the sitemap under base.
func BuildRobots(base string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + base + "/sitemap.xml"
}
