// Package eodhd implements the market data gateway over the EODHD REST API
// (https://eodhd.com/financial-apis/).
package eodhd

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/rotation"
)

// DefaultBaseURL is the production EODHD endpoint.
const DefaultBaseURL = "https://eodhd.com/api"

// Config configures a Client. The API key is always injected by the caller;
// there is deliberately no baked-in default.
type Config struct {
	APIKey  string
	BaseURL string // DefaultBaseURL when empty

	// HTTP is the client used for requests. When nil, a client with a
	// 30s timeout and a daily disk cache is used, so repeated batch runs
	// within a day do not burn API quota.
	HTTP *http.Client

	// Retry bounds the retry-with-backoff around every request. The zero
	// value means DefaultRetryPolicy.
	Retry rotation.RetryPolicy
}

// Client talks to the EODHD API. It implements rotation.Gateway.
type Client struct {
	key     string
	baseURL string
	http    *http.Client
	retry   rotation.RetryPolicy
}

var _ rotation.Gateway = (*Client)(nil)

// New returns a Client for the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("eodhd: API key is required")
	}
	c := &Client{
		key:     cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    cfg.HTTP,
		retry:   cfg.Retry,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = newDailyCachingClient()
		c.http.Timeout = 30 * time.Second
	}
	if c.retry.Attempts == 0 {
		c.retry = rotation.DefaultRetryPolicy()
	}
	return c, nil
}

// addr builds a full request URL for path with the given query parameters,
// the API token and the json format selector.
func (c *Client) addr(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.key)
	params.Set("fmt", "json")
	return c.baseURL + path + "?" + params.Encode()
}

// get fetches addr and unmarshals the JSON response into data, retrying
// transient failures per the client's retry policy.
func (c *Client) get(addr string, data interface{}) error {
	return c.retry.Do(func() error { return jwget(c.http, addr, data) })
}
