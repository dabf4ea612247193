package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"
)

type ClientConfig struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// Client is a thin wrapper around http.Client with a pooled transport.
// Call-site policy decides what to do with failures; no retries happen
// here (list reads collapse errors to empty results, forms surface them).
type Client struct {
	http *http.Client
}

func NewClient(conf ClientConfig) *Client {
	if conf.Timeout == 0 {
		conf.Timeout = 10 * time.Second
	}
	if conf.MaxIdleConns == 0 {
		conf.MaxIdleConns = 32
	}
	if conf.IdleConnTimeout == 0 {
		conf.IdleConnTimeout = 90 * time.Second
	}
	tr := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		MaxIdleConns:    conf.MaxIdleConns,
		IdleConnTimeout: conf.IdleConnTimeout,
	}
	return &Client{http: &http.Client{Transport: tr, Timeout: conf.Timeout}}
}

// Do runs the request with ctx carrying cancellation.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.http.Do(req.WithContext(ctx))
}
