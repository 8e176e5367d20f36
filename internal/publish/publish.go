// Package publish writes the generated sitemap.xml and robots.txt to a
// local directory or an S3 bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wolfman30/realestate-site/internal/sitemap"
)

// Artifact is one generated file.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// Publisher stores artifacts somewhere a web server can reach them.
type Publisher interface {
	Publish(ctx context.Context, a Artifact) error
}

// Artifacts builds sitemap.xml and robots.txt for base and routes.
func Artifacts(base string, routes []string) []Artifact {
	return []Artifact{
		{
			Name:        "sitemap.xml",
			ContentType: "application/xml; charset=utf-8",
			Body:        []byte(sitemap.BuildSitemap(base, routes)),
		},
		{
			Name:        "robots.txt",
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte(sitemap.BuildRobots(base)),
		},
	}
}

// PublishAll publishes every artifact and returns all failures joined.
func PublishAll(ctx context.Context, p Publisher, artifacts []Artifact) error {
	var errs []error
	for _, a := range artifacts {
		if err := p.Publish(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", a.Name, err))
		}
	}
	return errors.Join(errs...)
}

// DirPublisher writes artifacts into a directory.
type DirPublisher struct {
	dir string
}

// NewDirPublisher creates dir if needed.
func NewDirPublisher(dir string) (*DirPublisher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("publish: create %s: %w", dir, err)
	}
	return &DirPublisher{dir: dir}, nil
}

// Publish writes a through a temp file and rename, so readers never see a
// half-written file.
func (p *DirPublisher) Publish(_ context.Context, a Artifact) error {
	tmp, err := os.CreateTemp(p.dir, "."+a.Name+".*")
	if err != nil {
		return fmt.Errorf("publish: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(a.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("publish: write %s: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("publish: close %s: %w", a.Name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("publish: chmod %s: %w", a.Name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(p.dir, a.Name)); err != nil {
		return fmt.Errorf("publish: rename %s: %w", a.Name, err)
	}
	return nil
}
