// Package http provides the HTTP boundary of scrapehub: a session-scoped
// page fetcher that presents a Chrome TLS fingerprint, and the JSON service
// that exposes scraping over HTTP.
package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/fwojciec/scrapehub"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout is the default timeout for a single page fetch,
// including redirects and reading the body.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent matches the Chrome release the TLS fingerprint mimics.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Ensure types implement their scrapehub interfaces at compile time.
var (
	_ scrapehub.SessionOpener = (*Sessions)(nil)
	_ scrapehub.Fetcher       = (*Fetcher)(nil)
)

// Sessions opens Fetchers that each own a cookie jar and connection pool.
type Sessions struct {
	timeout         time.Duration
	followRedirects bool
	impersonate     bool
	userAgent       string
	rootCAs         *x509.CertPool
}

// Option configures Sessions.
type Option func(*Sessions)

// WithTimeout sets the timeout for each fetch.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Sessions) {
		s.timeout = d
	}
}

// WithFollowRedirects controls whether redirects are followed.
// When disabled a redirect response is reported as a non-2xx failure.
func WithFollowRedirects(follow bool) Option {
	return func(s *Sessions) {
		s.followRedirects = follow
	}
}

// WithImpersonation controls whether HTTPS connections present a Chrome
// TLS ClientHello. Enabled by default.
func WithImpersonation(enabled bool) Option {
	return func(s *Sessions) {
		s.impersonate = enabled
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Sessions) {
		s.userAgent = ua
	}
}

// WithRootCAs sets the certificate authorities trusted for HTTPS.
// Defaults to the host's root set.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(s *Sessions) {
		s.rootCAs = pool
	}
}

// NewSessions creates a new Sessions.
func NewSessions(opts ...Option) *Sessions {
	s := &Sessions{
		timeout:         DefaultFetchTimeout,
		followRedirects: true,
		impersonate:     true,
		userAgent:       DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a Fetcher with an empty cookie jar and its own transport.
func (s *Sessions) Open(ctx context.Context) (scrapehub.Fetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if s.impersonate {
		// A custom TLS dialer would be handed the proxy address, so
		// impersonating sessions connect directly.
		transport.DialTLSContext = chromeTLSDialer(dialer, s.rootCAs)
	} else {
		transport.Proxy = http.ProxyFromEnvironment
		transport.TLSClientConfig = &tls.Config{RootCAs: s.rootCAs}
	}

	client := &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   s.timeout,
	}
	if !s.followRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Fetcher{
		client:    client,
		transport: transport,
		userAgent: s.userAgent,
	}, nil
}

// Fetcher retrieves pages over one cookie jar and connection pool.
// It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	transport *http.Transport
	userAgent string
}

// Fetch retrieves the page at url and returns its body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", scrapehub.Errorf(scrapehub.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", scrapehub.Errorf(scrapehub.EUPSTREAM, "HTTP %d for %s", resp.StatusCode, url)
	}

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close drops the session's idle connections.
func (f *Fetcher) Close() error {
	f.transport.CloseIdleConnections()
	return nil
}
