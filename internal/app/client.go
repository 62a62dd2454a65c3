package app

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"wayfare.openmobility.org/internal/metrics"
)

// latencyTrackingRoundTripper wraps another RoundTripper to record the
// latency of every outgoing HTTP request as a Prometheus histogram, labeled
// by URL, method, and response status. Instrumenting the transport keeps the
// routing, quote, and feed call sites free of measurement code.
type latencyTrackingRoundTripper struct {
	next http.RoundTripper
}

func (rt *latencyTrackingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	// Normalized URL label without query params, so per-trip coordinates
	// don't explode the label cardinality.
	safeURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	metrics.OutgoingLatency.WithLabelValues(
		safeURL,
		req.Method,
		status,
	).Observe(duration)

	return resp, err
}

// NewPooledClient returns the shared HTTP client used for the routing server,
// the ride-hailing quote endpoints, and the transit feeds.
//
// The transport keeps idle connections warm between feed polls and between
// comparison requests, fails fast on unreachable hosts, and caps the full
// request lifecycle at 10 seconds so no upstream can hang a comparison.
func NewPooledClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	instrumentedTransport := &latencyTrackingRoundTripper{next: transport}

	client := &http.Client{
		Transport: instrumentedTransport,
		Timeout:   10 * time.Second,
	}
	return client
}
