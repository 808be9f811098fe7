package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/logger"
)

// Metrics holds application metrics
type Metrics struct {
	mu                 sync.RWMutex
	RequestCount       int64
	RequestDuration    time.Duration
	ErrorCount         int64
	AgentRequestCounts map[string]int64
	RuleCounts         map[string]int64
	StatusCodeCounts   map[int]int64
	StartTime          time.Time
}

// Global metrics instance
var globalMetrics = &Metrics{
	AgentRequestCounts: make(map[string]int64),
	RuleCounts:         make(map[string]int64),
	StatusCodeCounts:   make(map[int]int64),
	StartTime:          time.Now(),
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a request with its duration and status
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount++
	m.RequestDuration += duration
	m.StatusCodeCounts[statusCode]++

	if statusCode >= 400 {
		m.ErrorCount++
	}
}

// RecordDelegation records a routing decision and its target agent
func (m *Metrics) RecordDelegation(agent, rule string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if agent != "" {
		m.AgentRequestCounts[agent]++
	}
	if rule != "" {
		m.RuleCounts[rule]++
	}
}

// GetStats returns current statistics
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.StartTime)
	avgDuration := time.Duration(0)
	errorRate := float64(0)
	if m.RequestCount > 0 {
		avgDuration = m.RequestDuration / time.Duration(m.RequestCount)
		errorRate = float64(m.ErrorCount) / float64(m.RequestCount)
	}

	agentCounts := make(map[string]int64)
	for k, v := range m.AgentRequestCounts {
		agentCounts[k] = v
	}

	ruleCounts := make(map[string]int64)
	for k, v := range m.RuleCounts {
		ruleCounts[k] = v
	}

	statusCounts := make(map[int]int64)
	for k, v := range m.StatusCodeCounts {
		statusCounts[k] = v
	}

	return map[string]interface{}{
		"uptime_seconds":      uptime.Seconds(),
		"total_requests":      m.RequestCount,
		"total_errors":        m.ErrorCount,
		"average_duration_ms": avgDuration.Milliseconds(),
		"requests_per_second": float64(m.RequestCount) / uptime.Seconds(),
		"error_rate":          errorRate,
		"agent_requests":      agentCounts,
		"routing_rules":       ruleCounts,
		"status_code_counts":  statusCounts,
		"start_time":          m.StartTime.Format(time.RFC3339),
	}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount = 0
	m.RequestDuration = 0
	m.ErrorCount = 0
	m.AgentRequestCounts = make(map[string]int64)
	m.RuleCounts = make(map[string]int64)
	m.StatusCodeCounts = make(map[int]int64)
	m.StartTime = time.Now()
}

// MetricsHandler serves the metrics endpoint
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := globalMetrics.GetStats()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		logger.Error("Failed to encode metrics", "error", err)
		http.Error(w, "failed to encode metrics", http.StatusInternalServerError)
	}
}

// MetricsMiddleware records request counts, durations and status codes
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		globalMetrics.RecordRequest(time.Since(start), wrapper.statusCode)
	})
}

// SetupPprofRoutes registers pprof endpoints for performance profiling
func SetupPprofRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// statusRecorder captures the response status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Flush implements http.Flusher
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
