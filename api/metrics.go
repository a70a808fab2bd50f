package api

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// metrics holds the counters exposed on /metrics
type metrics struct {
	mu sync.RWMutex

	requests       int64
	clientErrors   int64
	serverErrors   int64
	panics         int64
	totalLatencyMs int64

	estimates      int64
	batchProjects  int64
	contactSent    int64
	contactFailed  int64
	contactLimited int64
}

func (m *metrics) observe(status int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.totalLatencyMs += elapsed.Milliseconds()
	switch {
	case status >= 500:
		m.serverErrors++
	case status >= 400:
		m.clientErrors++
	}
}

func (m *metrics) add(counter *int64, n int64) {
	m.mu.Lock()
	*counter += n
	m.mu.Unlock()
}

func (m *metrics) recordPanic() { m.add(&m.panics, 1) }

func (m *metrics) writeTo(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avgLatency := float64(0)
	if m.requests > 0 {
		avgLatency = float64(m.totalLatencyMs) / float64(m.requests)
	}

	_, err := fmt.Fprintf(w, `# HELP audit_quote_requests_total Total requests
# TYPE audit_quote_requests_total counter
audit_quote_requests_total %d

# HELP audit_quote_errors_total Responses by error class
# TYPE audit_quote_errors_total counter
audit_quote_errors_total{class="client"} %d
audit_quote_errors_total{class="server"} %d
audit_quote_errors_total{class="panic"} %d

# HELP audit_quote_latency_avg_ms Average latency
# TYPE audit_quote_latency_avg_ms gauge
audit_quote_latency_avg_ms %.2f

# HELP audit_quote_estimates_total Quotes computed
# TYPE audit_quote_estimates_total counter
audit_quote_estimates_total{endpoint="single"} %d
audit_quote_estimates_total{endpoint="batch"} %d

# HELP audit_quote_contact_total Contact submissions by outcome
# TYPE audit_quote_contact_total counter
audit_quote_contact_total{outcome="sent"} %d
audit_quote_contact_total{outcome="failed"} %d
audit_quote_contact_total{outcome="rate_limited"} %d
`,
		m.requests,
		m.clientErrors, m.serverErrors, m.panics,
		avgLatency,
		m.estimates, m.batchProjects,
		m.contactSent, m.contactFailed, m.contactLimited,
	)
	return err
}
