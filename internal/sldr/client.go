// Package sldr fetches canonical LDML definitions from a remote registry.
// Fetches are best effort: every failure is reported as ErrFetch and callers
// are expected to fall back to another source.
package sldr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/wsrepo/internal/cachemanager"
	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/tracing"
)

// ErrFetch wraps every failure returned by Fetch.
var ErrFetch = errors.New("fetch failed")

const (
	DefaultBaseURL = "https://ldml.api.sil.org"
	DefaultTimeout = 10 * time.Second
	DefaultMissTTL = 30 * time.Minute
	DefaultBodyTTL = 10 * time.Minute

	maxBodySize = 4 << 20
)

// Config configures the client.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// MissTTL is how long a "not found" answer is remembered.
	MissTTL time.Duration `mapstructure:"miss_ttl"`
	// BodyTTL is how long a downloaded definition is reused.
	BodyTTL time.Duration `mapstructure:"body_ttl"`
}

// DefaultConfig returns the public registry with conservative timeouts.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		MissTTL: DefaultMissTTL,
		BodyTTL: DefaultBodyTTL,
	}
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout bounds each fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithTracer sets the tracer used for fetch spans.
func WithTracer(t trace.Tracer) Option {
	return func(cl *Client) { cl.tracer = t }
}

// Client downloads definitions and remembers misses.
type Client struct {
	cfg    Config
	http   *http.Client
	tracer trace.Tracer
	bodies *cachemanager.ReadThroughCache[string, []byte, string]
	misses cachemanager.CacheManager[string, int]
}

// NewClient creates a client. Zero fields in cfg take their defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MissTTL <= 0 {
		cfg.MissTTL = def.MissTTL
	}
	if cfg.BodyTTL <= 0 {
		cfg.BodyTTL = def.BodyTTL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tracer: noop.NewTracerProvider().Tracer("sldr"),
		misses: cachemanager.NewInMemoryCacheManager[string, int]("sldr-misses", cfg.MissTTL, cachemanager.DefaultCleanupInterval),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bodies = cachemanager.NewReadThroughCache[string, []byte, string](
		cachemanager.NewInMemoryCacheManager[string, []byte]("sldr-bodies", cfg.BodyTTL, cachemanager.DefaultCleanupInterval),
		c.download,
		false,
	)
	return c
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// Fetch downloads the definition for id and writes it to dest. dest is
// replaced atomically; on failure it is left untouched.
func (c *Client) Fetch(ctx context.Context, dest, id string) error {
	ctx, span := c.tracer.Start(ctx, tracing.SpanFetch,
		trace.WithAttributes(attribute.String(tracing.AttrWritingSystemID, id)))
	defer span.End()

	if code, ok := c.misses.Get(ctx, id); ok {
		span.SetAttributes(attribute.Bool(tracing.AttrFetchCached, true))
		err := fmt.Errorf("%w: %s: remembered status %d", ErrFetch, id, code)
		tracing.RecordError(span, err)
		return err
	}

	body, err := c.bodies.Get(ctx, id, id, c.cfg.BodyTTL)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.code == http.StatusNotFound || se.code == http.StatusGone) {
			c.misses.Set(ctx, id, se.code, c.cfg.MissTTL)
		}
		log.Debug(log.CatFetch, "Fetch failed", "id", id, "error", err)
		err = fmt.Errorf("%w: %s: %w", ErrFetch, id, err)
		tracing.RecordError(span, err)
		return err
	}

	if err := writeAtomic(dest, body); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrFetch, id, err)
		tracing.RecordError(span, err)
		return err
	}
	log.Debug(log.CatFetch, "Fetched definition", "id", id, "dest", dest, "bytes", len(body))
	return nil
}

func (c *Client) endpoint(id string) string {
	return c.cfg.BaseURL + "/" + url.PathEscape(id) + "?ext=ldml&flatten=1"
}

func (c *Client) download(ctx context.Context, id string) ([]byte, error) {
	u := c.endpoint(id)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(tracing.AttrFetchURL, u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrFetchStatus, resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response larger than %d bytes", maxBodySize)
	}
	if len(body) == 0 {
		return nil, errors.New("empty response")
	}
	return body, nil
}

func writeAtomic(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
