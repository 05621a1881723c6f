package index

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gopak/plugpak/internal/catalog"
)

// Source produces the remote package catalog.
type Source interface {
	Fetch(ctx context.Context) ([]catalog.Package, error)
	String() string
}

// HTTPSource fetches the index document from a URL.
type HTTPSource struct {
	URL    string
	Client *Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]catalog.Package, error) {
	body, err := s.Client.Get(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	pkgs, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.URL, err)
	}
	return pkgs, nil
}

func (s *HTTPSource) String() string { return s.URL }

// FileSource reads the index document from a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]catalog.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	pkgs, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return pkgs, nil
}

func (s *FileSource) String() string { return s.Path }

// NewSource picks the source for a repo URL. sourcesPath, when set, overrides the URL.
func NewSource(repoURL, sourcesPath string, c *Client) Source {
	if sourcesPath != "" {
		return &FileSource{Path: sourcesPath}
	}
	if strings.HasPrefix(repoURL, "file://") {
		if u, err := url.Parse(repoURL); err == nil {
			return &FileSource{Path: u.Path}
		}
	}
	return &HTTPSource{URL: repoURL, Client: c}
}
