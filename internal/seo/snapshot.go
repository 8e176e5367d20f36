package seo

import (
	"fmt"

	"github.com/wolfman30/realestate-site/internal/site"
)

const schemaContext = "https://schema.org"

// SiteSnapshot builds the metadata of the agent site served under base.
func SiteSnapshot(p *site.Profile, base string, routes []site.Route) Snapshot {
	title := p.Title
	desc := p.Description
	image := p.Image

	snap := Snapshot{
		Title: title,
		Meta: []MetaTag{
			{Attr: AttrName, Name: "description", Content: desc},
			{Attr: AttrProperty, Name: "og:title", Content: title},
			{Attr: AttrProperty, Name: "og:description", Content: desc},
			{Attr: AttrProperty, Name: "og:type", Content: "website"},
			{Attr: AttrProperty, Name: "og:image", Content: image},
			{Attr: AttrName, Name: "twitter:card", Content: "summary_large_image"},
			{Attr: AttrName, Name: "twitter:title", Content: title},
			{Attr: AttrName, Name: "twitter:description", Content: desc},
			{Attr: AttrName, Name: "twitter:image", Content: image},
		},
		JSONLD: []Block{
			{ID: "ld-website", Value: websiteLD(p, base)},
			{ID: "ld-agent", Value: agentLD(p, base, image)},
			{ID: "ld-breadcrumbs", Value: breadcrumbLD(base, routes)},
		},
	}

	for i, post := range p.Posts {
		snap.JSONLD = append(snap.JSONLD, Block{
			ID:    fmt.Sprintf("ld-post-%d", i),
			Value: blogPostingLD(p.Agent.Name, base, post),
		})
	}
	return snap
}

type thing struct {
	Context string `json:"@context,omitempty"`
	Type    string `json:"@type"`
}

type websiteDoc struct {
	thing
	Name string `json:"name"`
	URL  string `json:"url"`
}

func websiteLD(p *site.Profile, base string) websiteDoc {
	return websiteDoc{
		thing: thing{Context: schemaContext, Type: "WebSite"},
		Name:  p.Agent.Brand + " | " + p.Agent.Name,
		URL:   base,
	}
}

type postalAddress struct {
	thing
	Locality string `json:"addressLocality"`
	Region   string `json:"addressRegion"`
	Country  string `json:"addressCountry"`
}

type agentDoc struct {
	thing
	Name       string        `json:"name"`
	Brand      string        `json:"brand"`
	AreaServed []string      `json:"areaServed"`
	URL        string        `json:"url"`
	Image      string        `json:"image"`
	Telephone  string        `json:"telephone"`
	Email      string        `json:"email,omitempty"`
	PriceRange string        `json:"priceRange"`
	Address    postalAddress `json:"address"`
}

func agentLD(p *site.Profile, base, image string) agentDoc {
	a := p.Agent
	return agentDoc{
		thing:      thing{Context: schemaContext, Type: "RealEstateAgent"},
		Name:       a.Name,
		Brand:      a.Brand,
		AreaServed: a.AreasServed,
		URL:        base + "/",
		Image:      image,
		Telephone:  a.Phone,
		Email:      a.Email,
		PriceRange: a.PriceRange,
		Address: postalAddress{
			thing:    thing{Type: "PostalAddress"},
			Locality: a.Locality,
			Region:   a.Region,
			Country:  a.Country,
		},
	}
}

type listItem struct {
	thing
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbDoc struct {
	thing
	Items []listItem `json:"itemListElement"`
}

func breadcrumbLD(base string, routes []site.Route) breadcrumbDoc {
	items := make([]listItem, 0, len(routes))
	for i, r := range routes {
		items = append(items, listItem{
			thing:    thing{Type: "ListItem"},
			Position: i + 1,
			Name:     r.Label,
			Item:     base + "/" + r.Path,
		})
	}
	return breadcrumbDoc{
		thing: thing{Context: schemaContext, Type: "BreadcrumbList"},
		Items: items,
	}
}

type person struct {
	thing
	Name string `json:"name"`
}

type blogPostingDoc struct {
	thing
	Headline      string `json:"headline"`
	DatePublished string `json:"datePublished"`
	Author        person `json:"author"`
	MainEntity    string `json:"mainEntityOfPage"`
}

func blogPostingLD(author, base string, post site.Post) blogPostingDoc {
	return blogPostingDoc{
		thing:         thing{Context: schemaContext, Type: "BlogPosting"},
		Headline:      post.Title,
		DatePublished: post.Date,
		Author:        person{thing: thing{Type: "Person"}, Name: author},
		MainEntity:    base + "/#blog/" + post.Slug,
	}
}
