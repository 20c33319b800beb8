package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Noooste/azuretls-client"

	"github.com/maubot/rss/internal/config"
	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/logger"
)

const defaultMaxBodySize = 16 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final URL after redirects.
	URL string
}

type FetcherOptions struct {
	Timeout   time.Duration
	UserAgent string
	// MaxBodySize caps the bytes read from one response.
	MaxBodySize int64
	// BrowserFallback retries 403 and 503 answers with a Chrome TLS fingerprint.
	BrowserFallback bool
	Limiter         *HostLimiter
}

type Fetcher struct {
	factory *ClientFactory
	opts    FetcherOptions
}

func NewFetcher(factory *ClientFactory, opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.BotUserAgent
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = defaultMaxBodySize
	}
	return &Fetcher{factory: factory, opts: opts}
}

// Fetch issues a GET. Only transport failures are errors; callers judge the status code.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", feed.ErrTransport, err)
	}
	if err := f.opts.Limiter.Wait(ctx, parsed.Host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", feed.ErrTransport, err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/json;q=0.9, application/xml;q=0.8, */*;q=0.5")
	}

	client := f.factory.NewHTTPClient(ctx, f.opts.Timeout)
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", feed.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, f.opts.MaxBodySize)
	if err != nil {
		return nil, err
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		URL:        rawURL,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		result.URL = resp.Request.URL.String()
	}

	if f.opts.BrowserFallback && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable) {
		logger.Debug("feed fetch blocked, retrying as browser", "module", "network", "action", "fetch", "resource", "feed", "result", "retry", "host", parsed.Host, "status_code", resp.StatusCode)
		fallback, err := f.fetchAsBrowser(ctx, rawURL)
		if err != nil {
			logger.Debug("browser fetch failed", "module", "network", "action", "fetch", "resource", "feed", "result", "failed", "host", parsed.Host, "error", err)
			return result, nil
		}
		return fallback, nil
	}

	return result, nil
}

func (f *Fetcher) fetchAsBrowser(ctx context.Context, rawURL string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session := f.factory.NewAzureSession(ctx, f.opts.Timeout)
	defer session.Close()

	headers := azuretls.OrderedHeaders{
		{"accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/html;q=0.8,*/*;q=0.7"},
		{"accept-language", "en-US,en;q=0.9"},
		{"sec-ch-ua", config.ChromeSecChUa},
		{"sec-ch-ua-mobile", "?0"},
		{"sec-ch-ua-platform", `"Windows"`},
		{"sec-fetch-dest", "document"},
		{"sec-fetch-mode", "navigate"},
		{"sec-fetch-site", "none"},
		{"upgrade-insecure-requests", "1"},
		{"user-agent", config.ChromeUserAgent},
	}

	resp, err := session.Do(&azuretls.Request{
		Method:         http.MethodGet,
		Url:            rawURL,
		OrderedHeaders: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", feed.ErrTransport, err)
	}
	if int64(len(resp.Body)) > f.opts.MaxBodySize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", feed.ErrTransport, f.opts.MaxBodySize)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     http.Header(resp.Header),
		Body:       resp.Body,
		URL:        rawURL,
	}, nil
}

var errBodyTooLarge = errors.New("body too large")

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", feed.ErrTransport, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %w (%d bytes)", feed.ErrTransport, errBodyTooLarge, limit)
	}
	return body, nil
}
