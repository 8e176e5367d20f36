package seo

import (
	"sync"

	g "maragu.dev/gomponents"
	gh "maragu.dev/gomponents/html"
)

type metaKey struct {
	attr string
	name string
}

type ldEntry struct {
	id      string
	payload []byte
}

// Head is an in-memory Sink that renders as the metadata part of <head>.
// Elements keep the order in which they were first set.
type Head struct {
	mu      sync.RWMutex
	title   string
	meta    []MetaTag
	metaIdx map[metaKey]int
	ld      []ldEntry
	ldIdx   map[string]int
}

// NewHead creates an empty head.
func NewHead() *Head {
	return &Head{
		metaIdx: make(map[metaKey]int),
		ldIdx:   make(map[string]int),
	}
}

func (h *Head) SetTitle(title string) {
	h.mu.Lock()
	h.title = title
	h.mu.Unlock()
}

func (h *Head) SetMeta(attr, name, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := metaKey{attr: attr, name: name}
	if i, ok := h.metaIdx[key]; ok {
		h.meta[i].Content = content
		return
	}
	h.metaIdx[key] = len(h.meta)
	h.meta = append(h.meta, MetaTag{Attr: attr, Name: name, Content: content})
}

func (h *Head) SetJSONLD(id string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := append([]byte(nil), payload...)
	if i, ok := h.ldIdx[id]; ok {
		h.ld[i].payload = cp
		return
	}
	h.ldIdx[id] = len(h.ld)
	h.ld = append(h.ld, ldEntry{id: id, payload: cp})
}

// Title returns the current document title.
func (h *Head) Title() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.title
}

// Meta returns the content of the meta tag (attr, name).
func (h *Head) Meta(attr, name string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := h.metaIdx[metaKey{attr: attr, name: name}]
	if !ok {
		return "", false
	}
	return h.meta[i].Content, true
}

// JSONLD returns the encoded block with the given id.
func (h *Head) JSONLD(id string) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := h.ldIdx[id]
	if !ok {
		return nil, false
	}
	return h.ld[i].payload, true
}

// Len reports the number of meta tags and JSON-LD blocks held.
func (h *Head) Len() (meta, blocks int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.meta), len(h.ld)
}

// Nodes renders the title, meta tags and JSON-LD scripts.
func (h *Head) Nodes() g.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()

	nodes := make([]g.Node, 0, 1+len(h.meta)+len(h.ld))
	if h.title != "" {
		nodes = append(nodes, gh.TitleEl(g.Text(h.title)))
	}
	for _, tag := range h.meta {
		nodes = append(nodes, gh.Meta(g.Attr(tag.Attr, tag.Name), gh.Content(tag.Content)))
	}
	for _, entry := range h.ld {
		// json.Marshal escapes <, > and &, so the payload cannot close the script early.
		nodes = append(nodes, gh.Script(gh.Type("application/ld+json"), gh.ID(entry.id), g.Raw(string(entry.payload))))
	}
	return g.Group(nodes)
}
