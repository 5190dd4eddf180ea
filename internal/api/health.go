package api

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/store"
	"github.com/MJE43/session-secret-go/internal/version"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status        HealthStatus           `json:"status"`
	Timestamp     string                 `json:"timestamp"`
	EngineVersion string                 `json:"engine_version"`
	GitCommit     string                 `json:"git_commit,omitempty"`
	BuildTime     string                 `json:"build_time,omitempty"`
	Uptime        string                 `json:"uptime"`
	Checks        map[string]HealthCheck `json:"checks"`
	System        SystemInfo             `json:"system"`
	RequestID     string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemoryTotal   uint64 `json:"memory_total_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

// MetricsResponse represents basic performance metrics
type MetricsResponse struct {
	Timestamp     string               `json:"timestamp"`
	EngineVersion string               `json:"engine_version"`
	Uptime        string               `json:"uptime"`
	System        SystemInfo           `json:"system"`
	Operations    map[string]OpMetrics `json:"operations"`
	RequestID     string               `json:"request_id,omitempty"`
}

// OpMetrics represents per-route request counters
type OpMetrics struct {
	TotalRequests   uint64 `json:"total_requests"`
	SuccessRequests uint64 `json:"success_requests"`
	ErrorRequests   uint64 `json:"error_requests"`
	AvgDurationMs   int64  `json:"avg_duration_ms"`
	LastRequest     string `json:"last_request,omitempty"`
}

type opMetrics struct {
	mu    sync.Mutex
	ops   map[string]*OpMetrics
	total map[string]time.Duration
}

func newOpMetrics() *opMetrics {
	return &opMetrics{
		ops:   make(map[string]*OpMetrics),
		total: make(map[string]time.Duration),
	}
}

func (m *opMetrics) record(op string, status int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.ops[op]
	if !ok {
		om = &OpMetrics{}
		m.ops[op] = om
	}
	om.TotalRequests++
	if status >= 400 {
		om.ErrorRequests++
	} else {
		om.SuccessRequests++
	}
	m.total[op] += d
	om.AvgDurationMs = (m.total[op] / time.Duration(om.TotalRequests)).Milliseconds()
	om.LastRequest = time.Now().UTC().Format(time.RFC3339)
}

func (m *opMetrics) snapshot() map[string]OpMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]OpMetrics, len(m.ops))
	for k, v := range m.ops {
		out[k] = *v
	}
	return out
}

// handleHealthCheck provides comprehensive health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	start := time.Now()

	checks := map[string]HealthCheck{
		"charset":  s.checkCharsetHealth(),
		"entropy":  s.checkEntropyHealth(),
		"database": s.checkDatabaseHealth(),
	}

	overallStatus := HealthStatusHealthy
	for _, c := range checks {
		switch c.Status {
		case HealthStatusUnhealthy:
			overallStatus = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if overallStatus == HealthStatusHealthy {
				overallStatus = HealthStatusDegraded
			}
		}
	}

	response := HealthCheckResponse{
		Status:        overallStatus,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EngineVersion: version.EngineVersion,
		GitCommit:     version.GitCommit,
		BuildTime:     version.BuildTime,
		Uptime:        time.Since(s.startTime).String(),
		Checks:        checks,
		System:        s.getSystemInfo(),
		RequestID:     requestID,
	}

	statusCode := http.StatusOK
	if overallStatus == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	s.securityLogger.LogAuditEvent(
		requestID,
		"health_check",
		"system",
		string(overallStatus),
		map[string]interface{}{
			"duration":    time.Since(start).String(),
			"checks":      len(checks),
			"status_code": statusCode,
		},
	)

	s.writeJSON(w, statusCode, response)
}

// handleMetrics reports per-route request counters
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	response := MetricsResponse{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EngineVersion: version.EngineVersion,
		Uptime:        time.Since(s.startTime).String(),
		System:        s.getSystemInfo(),
		Operations:    s.metrics.snapshot(),
		RequestID:     middleware.GetReqID(r.Context()),
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleReadiness reports whether the server can generate secrets
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	ready := true
	message := "Ready"
	if c := s.checkCharsetHealth(); c.Status != HealthStatusHealthy {
		ready, message = false, c.Message
	}
	if c := s.checkEntropyHealth(); c.Status != HealthStatusHealthy {
		ready, message = false, c.Message
	}

	response := map[string]interface{}{
		"ready":          ready,
		"message":        message,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"engine_version": version.EngineVersion,
		"request_id":     requestID,
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	s.writeJSON(w, statusCode, response)
}

// handleLiveness provides liveness probe endpoint
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"alive":          true,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"engine_version": version.EngineVersion,
		"uptime":         time.Since(s.startTime).String(),
		"request_id":     middleware.GetReqID(r.Context()),
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) checkCharsetHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	n := len(charset.All())
	message := fmt.Sprintf("%d character classes available", n)
	if _, err := charset.Resolve(charset.IDs()); err != nil {
		status = HealthStatusUnhealthy
		message = err.Error()
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

func (s *Server) checkEntropyHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Random source readable"
	if _, err := s.src.Uint64(); err != nil {
		status = HealthStatusUnhealthy
		message = err.Error()
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// checkDatabaseHealth reports degraded when the run store is off or failing;
// generation works without it.
func (s *Server) checkDatabaseHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Database connection healthy"

	db := s.app.Store()
	if db == nil {
		status = HealthStatusDegraded
		message = "Run store not enabled"
	} else if _, err := db.ListRuns(store.RunsQuery{Page: 1, PerPage: 1}); err != nil {
		status = HealthStatusDegraded
		message = fmt.Sprintf("Run store query failed: %v", err)
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

func (s *Server) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
		MemoryTotal:   m.TotalAlloc,
		MemorySys:     m.Sys,
		GCCycles:      m.NumGC,
	}
}
