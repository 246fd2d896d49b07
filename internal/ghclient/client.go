package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/prsweep/internal/constants"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub REST client with the calls the sweeper needs.
type Client struct {
	client *gh.Client
	rate   *RateLimitState
}

type clientOptions struct {
	baseURL string
	timeout time.Duration
	base    http.RoundTripper
}

// Option configures NewClient.
type Option func(*clientOptions)

// WithBaseURL points the client at a GitHub Enterprise Server instance.
func WithBaseURL(url string) Option {
	return func(o *clientOptions) {
		o.baseURL = url
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithTransport sets the transport below the auth and rate limit layers.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.base = rt
	}
}

// NewClient creates a GitHub client authenticated with a personal access token.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	o := clientOptions{timeout: constants.DefaultHTTPTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: o.base})
	}
	tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	state := &RateLimitState{}
	tc.Transport = newRateLimitTransport(tc.Transport, state)
	tc.Timeout = o.timeout

	client := gh.NewClient(tc)
	if o.baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(o.baseURL, o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", o.baseURL, err)
		}
	}

	return &Client{
		client: client,
		rate:   state,
	}, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// RateLimitState returns the rate limit values observed so far.
func (c *Client) RateLimitState() *RateLimitState {
	return c.rate
}
