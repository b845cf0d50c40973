package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/core/proxy"

	"go.uber.org/zap"
)

// Options configure an outbound client.
type Options struct {
	// Timeout bounds the whole request, including reading the body.
	Timeout time.Duration
	// UserAgent is sent on requests that do not set one.
	UserAgent string
	// Proxy routes requests through an HTTP proxy when enabled.
	Proxy proxy.Settings
}

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// UserAgent is added to requests that lack one.
	UserAgent string
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if lrt.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", lrt.UserAgent)
	}

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Warn("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware and optional proxy.
func NewClient(opts Options) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if opts.Proxy.HasProxy() {
		proxyURL, err := url.Parse(opts.Proxy.FullURL())
		if err != nil {
			return nil, fmt.Errorf("invalid proxy settings: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied:   transport,
			UserAgent: opts.UserAgent,
		},
		Timeout: opts.Timeout,
	}, nil
}
