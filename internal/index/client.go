package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "plugpak/1.0"

type Options struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client is the HTTP client used for the package index and package assets.
// Retries with backoff are done by go-retryablehttp underneath resty.
type Client struct {
	http *resty.Client
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryWaitMin == 0 {
		opts.RetryWaitMin = 500 * time.Millisecond
	}
	if opts.RetryWaitMax == 0 {
		opts.RetryWaitMax = 10 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = opts.RetryWaitMin
	rc.RetryWaitMax = opts.RetryWaitMax
	rc.Logger = logging.NewLeveled("http")
	rc.HTTPClient.Timeout = opts.Timeout

	hc := resty.NewWithClient(rc.StandardClient()).
		SetHeader("User-Agent", userAgent)

	return &Client{http: hc}
}

// Get returns the body of a successful GET of url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}

// Download writes the body of url to dest, removing dest again on failure.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(url)
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("download %s: %w", url, err)
	}
	if resp.IsError() {
		_ = os.Remove(dest)
		return fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode())
	}
	return nil
}
