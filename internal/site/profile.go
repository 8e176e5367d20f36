// Package site holds the static content of the agent site: the fixed section
// routes and the agent profile loaded from YAML.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultProfile []byte

var (
	// ErrMissingAgentName is returned when a profile has no agent name.
	ErrMissingAgentName = errors.New("site: agent name is required")
	// ErrMissingTitle is returned when a profile has no page title.
	ErrMissingTitle = errors.New("site: title is required")
)

// Route is one section of the single-page layout.
type Route struct {
	Path  string
	Label string
}

var routes = []Route{
	{Path: "#home", Label: "Home"},
	{Path: "#listings", Label: "Listings"},
	{Path: "#process", Label: "Process"},
	{Path: "#blog", Label: "Insights"},
	{Path: "#service-areas", Label: "Service Areas"},
	{Path: "#contact", Label: "Contact"},
}

// Routes returns a copy of the canonical section list, in display order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// RoutePaths returns the fragment identifiers of Routes, in order.
func RoutePaths() []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Path)
	}
	return out
}

// Agent describes the licensed agent the site represents.
type Agent struct {
	Name          string   `yaml:"name"`
	Brand         string   `yaml:"brand"`
	License       string   `yaml:"license"`
	Broker        string   `yaml:"broker"`
	BrokerLicense string   `yaml:"broker_license"`
	Email         string   `yaml:"email"`
	Phone         string   `yaml:"phone"`
	PhoneDisplay  string   `yaml:"phone_display"`
	PriceRange    string   `yaml:"price_range"`
	Locality      string   `yaml:"locality"`
	Region        string   `yaml:"region"`
	Country       string   `yaml:"country"`
	AreasServed   []string `yaml:"areas_served"`
}

// TelURI returns the phone number as a tel: link target.
func (a Agent) TelURI() string {
	var b strings.Builder
	b.WriteString("tel:")
	for _, r := range a.Phone {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type Stat struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type CaseStudy struct {
	Label string `yaml:"label"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Stats []Stat `yaml:"stats"`
}

type Hero struct {
	Pill      string    `yaml:"pill"`
	Headline  string    `yaml:"headline"`
	Body      string    `yaml:"body"`
	CaseStudy CaseStudy `yaml:"case_study"`
}

// Block is a titled paragraph used for value props and process steps.
type Block struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Post is a short blog entry shown in the Insights section.
type Post struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Excerpt string `yaml:"excerpt"`
	Slug    string `yaml:"slug"`
}

// ServiceArea groups neighborhoods under a market.
type ServiceArea struct {
	City          string   `yaml:"city"`
	Neighborhoods []string `yaml:"neighborhoods"`
}

// Listings configures the IDX/MLS slot. Embed wins over IDXURL when it holds
// iframe markup.
type Listings struct {
	IDXURL string `yaml:"idx_url"`
	Embed  string `yaml:"embed"`
}

// HasEmbed reports whether Embed carries provider iframe markup.
func (l Listings) HasEmbed() bool {
	return strings.Contains(l.Embed, "<iframe")
}

// Profile is everything the page and its metadata are rendered from.
type Profile struct {
	Agent        Agent         `yaml:"agent"`
	Title        string        `yaml:"title"`
	Description  string        `yaml:"description"`
	Image        string        `yaml:"image"`
	Hero         Hero          `yaml:"hero"`
	ValueProps   []Block       `yaml:"value_props"`
	Process      []Block       `yaml:"process"`
	Posts        []Post        `yaml:"posts"`
	ServiceAreas []ServiceArea `yaml:"service_areas"`
	Listings     Listings      `yaml:"listings"`
}

// Validate checks the fields the page cannot render without.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Agent.Name) == "" {
		return ErrMissingAgentName
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}
	return nil
}

// Parse decodes a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("site: decode profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic(err)
	}
	return p
}

// Load reads a profile from path, or returns the embedded default when path is empty.
func Load(path string) (*Profile, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read profile: %w", err)
	}
	return Parse(data)
}
