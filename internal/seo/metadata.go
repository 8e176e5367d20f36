// Package seo builds the document metadata of the site (title, meta tags and
// JSON-LD blocks) and applies it to a page head.
package seo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilSink is returned when Apply is called without a sink.
	ErrNilSink = errors.New("seo: sink is required")
	// ErrEmptyBlockID is returned for a JSON-LD block without an id.
	ErrEmptyBlockID = errors.New("seo: json-ld block id is required")
)

// Meta tag attribute kinds.
const (
	AttrName     = "name"
	AttrProperty = "property"
)

// MetaTag is a <meta> element keyed by (Attr, Name).
type MetaTag struct {
	Attr    string
	Name    string
	Content string
}

// Block is a JSON-LD structured-data script keyed by ID.
type Block struct {
	ID    string
	Value any
}

// Snapshot is the complete metadata state a page should end up with.
type Snapshot struct {
	Title  string
	Meta   []MetaTag
	JSONLD []Block
}

// Sink receives metadata. Implementations must treat every setter as an
// upsert so repeated application converges on the same state.
type Sink interface {
	SetTitle(title string)
	SetMeta(attr, name, content string)
	SetJSONLD(id string, payload []byte)
}

// Apply writes the snapshot into sink. Applying the same snapshot any number
// of times leaves the sink in the same final state.
func Apply(sink Sink, snap Snapshot) error {
	if sink == nil {
		return ErrNilSink
	}

	// Encode everything before touching the sink so a bad block leaves it unchanged.
	payloads := make([][]byte, len(snap.JSONLD))
	for i, block := range snap.JSONLD {
		if strings.TrimSpace(block.ID) == "" {
			return ErrEmptyBlockID
		}
		data, err := json.Marshal(block.Value)
		if err != nil {
			return fmt.Errorf("seo: encode %s: %w", block.ID, err)
		}
		payloads[i] = data
	}

	sink.SetTitle(snap.Title)
	for _, tag := range snap.Meta {
		attr := tag.Attr
		if attr == "" {
			attr = AttrName
		}
		sink.SetMeta(attr, tag.Name, tag.Content)
	}
	for i, block := range snap.JSONLD {
		sink.SetJSONLD(block.ID, payloads[i])
	}
	return nil
}
