package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client bundles the go-github client with the request budget shared by
// every caller that talks to the same API host.
type Client struct {
	Client *github.Client
	HTTP   *http.Client
	Budget *Budget
}

type options struct {
	logger  *zap.Logger
	baseURL string
	timeout time.Duration
}

type Option func(*options)

// WithLogger logs one debug line per request and response.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBaseURL points the client at a GitHub Enterprise host or a test server.
func WithBaseURL(raw string) Option {
	return func(o *options) {
		o.baseURL = raw
	}
}

// WithTimeout bounds every HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// loggingRoundTripper emits one line per request and response (including latency).
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("github api request", zap.String("method", req.Method), zap.String("url", req.URL.Redacted()))
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Debug("github api error", zap.Duration("elapsed", dur), zap.Error(err))
	} else {
		t.logger.Debug("github api response", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", dur))
	}
	return resp, err
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	transport := http.DefaultTransport
	if o.logger != nil {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	tc := &http.Client{Transport: transport, Timeout: o.timeout}

	gc := github.NewClient(tc)
	if o.baseURL != "" {
		raw := o.baseURL
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("github client: invalid base url %q: %w", o.baseURL, err)
		}
		gc.BaseURL = u
		gc.UploadURL = u
	}

	return &Client{
		Client: gc,
		HTTP:   tc,
		Budget: NewBudget(),
	}, nil
}

// Track acquires one request from the budget before calling fn and feeds the
// response headers back afterwards.
func (c *Client) Track(ctx context.Context, fn func() (*github.Response, error)) (*github.Response, error) {
	if c == nil || c.Client == nil {
		return nil, fmt.Errorf("github client is nil")
	}
	if c.Budget != nil {
		if err := c.Budget.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	resp, err := fn()
	if resp != nil && c.Budget != nil {
		c.Budget.UpdateFromResponse(resp.Response)
	}
	return resp, err
}

// IsNotFound reports whether resp is a 404.
func IsNotFound(resp *github.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}
