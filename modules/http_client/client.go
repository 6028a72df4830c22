// Package http_client provides a pooled HTTP client that components share
// through the shared data registry instead of each opening their own
// connection pool.
package http_client

import (
	"net/http"
	"time"

	"github.com/vk/sharegrid/internal/shared"
)

// DefaultTag is the tag the client is shared under unless a component
// configures another one.
const DefaultTag = "http_client"

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is the shared value. It embeds *http.Client so consumers can use it
// directly.
type Client struct {
	*http.Client
}

// NewClient creates a client with a pooled transport.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Dispose closes idle connections once the last consumer is gone.
func (c *Client) Dispose() error {
	c.CloseIdleConnections()
	return nil
}

// Acquire returns the client shared under tag, creating it with timeout if
// no consumer has created it yet. An existing client keeps the timeout it
// was created with.
func Acquire(h *shared.Handle, tag string, timeout time.Duration) (*Client, error) {
	if tag == "" {
		tag = DefaultTag
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return shared.GetOrCreate(h, tag, func() (*Client, error) {
		return NewClient(timeout), nil
	})
}
