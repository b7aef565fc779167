package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
)

// maxRedirects bounds redirect chains.
const maxRedirects = 10

// Response is a fully read HTTP response.
type Response struct {
	// URL is the final URL after redirects.
	URL *url.URL

	// StatusCode is the HTTP status code.
	StatusCode int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, at most MaxBodySize bytes when a limit
	// is configured.
	Body []byte

	// Truncated is set when the body was cut at the size limit.
	Truncated bool
}

// Client performs GET requests with one persistent http.Client.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	timeout      time.Duration
	maxBodySize  int64
	proxyAddress string
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxBodySize limits how many body bytes are read. Zero means no limit.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithProxy routes requests through a SOCKS5 proxy at "host:port".
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithHTTPClient replaces the underlying http.Client.
// Proxy and timeout options are ignored when this is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient != nil {
		return c, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.proxyAddress != "" {
		if !isValidProxyAddress(c.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return c, nil
}

// Get fetches rawURL and reads the body.
// For a non-2xx status both the response and a *StatusError are returned.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, rawURL)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if c.maxBodySize > 0 {
		reader = io.LimitReader(resp.Body, c.maxBodySize+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}

	out := &Response{
		URL:         resp.Request.URL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if c.maxBodySize > 0 && int64(len(body)) > c.maxBodySize {
		out.Body = body[:c.maxBodySize]
		out.Truncated = true
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return out, nil
}

// isValidProxyAddress checks for a non-empty host and a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}
