// Package httpx builds the outbound HTTP clients used by remote oracles and
// health probes. Nothing in the module uses http.DefaultClient.
package httpx

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultClientTimeout         = 5 * time.Second
	defaultDialTimeout           = 3 * time.Second
	defaultResponseHeaderTimeout = 3 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultMaxIdleConns          = 16
	defaultMaxIdleConnsPerHost   = 4
)

type options struct {
	tracing bool
	maxIdle int
}

// Option customises NewClient.
type Option func(*options)

// WithTracing wraps the transport with otelhttp so outbound calls join the
// caller's trace.
func WithTracing() Option {
	return func(o *options) { o.tracing = true }
}

// WithMaxIdlePerHost overrides the idle connection cap per host. Oracle
// pools size this to their concurrency.
func WithMaxIdlePerHost(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIdle = n
		}
	}
}

// NewClient returns a hardened HTTP client. timeout bounds the whole
// exchange; dial and response-header timeouts are capped below it.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	o := options{maxIdle: defaultMaxIdleConnsPerHost}
	for _, opt := range opts {
		opt(&o)
	}
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	dialTimeout := min(timeout, defaultDialTimeout)
	responseHeaderTimeout := min(timeout, defaultResponseHeaderTimeout)

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          max(defaultMaxIdleConns, o.maxIdle),
		MaxIdleConnsPerHost:   o.maxIdle,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
	}
	if o.tracing {
		rt = otelhttp.NewTransport(rt)
	}

	return &http.Client{Timeout: timeout, Transport: rt}
}
