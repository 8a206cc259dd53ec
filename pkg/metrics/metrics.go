package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics holds request counters for one server instance.
// Thread-safe via atomics and mutex.
type Metrics struct {
	totalRequests  int64
	activeRequests int64
	totalErrors    int64
	totalLatencyMs int64
	maxLatencyMs   int64

	mu             sync.Mutex
	startTime      time.Time
	endpointCounts map[string]int64
	endpointLatMs  map[string]int64
	statusCodes    map[int]int64
	now            func() time.Time
}

func New() *Metrics {
	m := &Metrics{now: time.Now}
	m.Reset()
	return m
}

// Middleware tracks request count, latency, active requests, and error rates
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.activeRequests, 1)
			start := m.now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			latencyMs := m.now().Sub(start).Milliseconds()
			atomic.AddInt64(&m.activeRequests, -1)
			atomic.AddInt64(&m.totalRequests, 1)
			atomic.AddInt64(&m.totalLatencyMs, latencyMs)

			// Update max latency (lock-free CAS loop)
			for {
				current := atomic.LoadInt64(&m.maxLatencyMs)
				if latencyMs <= current {
					break
				}
				if atomic.CompareAndSwapInt64(&m.maxLatencyMs, current, latencyMs) {
					break
				}
			}

			statusCode := c.Response().Status
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			endpoint := c.Request().Method + " " + path

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.endpointLatMs[endpoint] += latencyMs
			m.statusCodes[statusCode]++
			m.mu.Unlock()
			if statusCode >= http.StatusBadRequest {
				atomic.AddInt64(&m.totalErrors, 1)
			}

			return nil
		}
	}
}

// Snapshot is a point-in-time view of the counters
type Snapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	ErrorRate      float64          `json:"error_rate_pct"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

func (m *Metrics) Snapshot() Snapshot {
	total := atomic.LoadInt64(&m.totalRequests)
	errs := atomic.LoadInt64(&m.totalErrors)
	totalLatency := atomic.LoadInt64(&m.totalLatencyMs)

	s := Snapshot{
		TotalRequests:  total,
		ActiveRequests: atomic.LoadInt64(&m.activeRequests),
		TotalErrors:    errs,
		MaxLatencyMs:   atomic.LoadInt64(&m.maxLatencyMs),
	}
	if total > 0 {
		s.AvgLatencyMs = float64(totalLatency) / float64(total)
		s.ErrorRate = float64(errs) / float64(total) * 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.UptimeSeconds = m.now().Sub(m.startTime).Seconds()
	s.EndpointCounts = make(map[string]int64, len(m.endpointCounts))
	s.EndpointAvgMs = make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		s.EndpointCounts[k] = v
		if v > 0 {
			s.EndpointAvgMs[k] = m.endpointLatMs[k] / v
		}
	}
	s.StatusCodes = make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		s.StatusCodes[k] = v
	}

	return s
}

func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.totalRequests, 0)
	atomic.StoreInt64(&m.totalErrors, 0)
	atomic.StoreInt64(&m.totalLatencyMs, 0)
	atomic.StoreInt64(&m.maxLatencyMs, 0)

	m.mu.Lock()
	m.endpointCounts = make(map[string]int64)
	m.endpointLatMs = make(map[string]int64)
	m.statusCodes = make(map[int]int64)
	m.startTime = m.now()
	m.mu.Unlock()
}

// Handler serves the current snapshot as JSON.
func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}

// ResetHandler clears every counter except active requests.
func (m *Metrics) ResetHandler(c echo.Context) error {
	m.Reset()
	return c.NoContent(http.StatusNoContent)
}
