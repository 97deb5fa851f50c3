// Package http provides the outbound HTTP client used to reach other HRMS services.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for service-to-service calls.
//
// http.DefaultClient has no timeout, so callers always get a client whose whole-request
// deadline is timeout, with short dial/TLS timeouts and a bounded idle pool.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
