// Package metrics provides Prometheus metrics for the disk-mosaic scanner and API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diskmosaic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diskmosaic_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Scanner metrics
	directoriesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diskmosaic_directories_scanned_total",
			Help: "Total number of directories listed by the scanner",
		},
	)

	filesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diskmosaic_files_scanned_total",
			Help: "Total number of regular files sized by the scanner",
		},
	)

	bytesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diskmosaic_bytes_scanned_total",
			Help: "Total bytes of regular files seen by the scanner",
		},
	)

	scanErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diskmosaic_scan_errors_total",
			Help: "Filesystem errors recovered by the scanner",
		},
		[]string{"op"},
	)

	scanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diskmosaic_scan_duration_seconds",
			Help:    "Duration of complete scan sessions",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"result"},
	)

	activeScans = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "diskmosaic_active_scans",
			Help: "Number of scan sessions currently running",
		},
	)

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "diskmosaic_ws_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)
)

// RecordDirectory counts one listed directory.
func RecordDirectory() {
	directoriesScanned.Inc()
}

// RecordFiles counts files and their bytes.
func RecordFiles(count, bytes uint64) {
	filesScanned.Add(float64(count))
	bytesScanned.Add(float64(bytes))
}

// RecordScanError counts a recovered filesystem error for op ("readdir").
func RecordScanError(op string) {
	scanErrorsTotal.WithLabelValues(op).Inc()
}

// ScanStarted marks a scan session as running.
func ScanStarted() {
	activeScans.Inc()
}

// ScanFinished records a session's duration; result is "completed" or "stopped".
func ScanFinished(result string, d time.Duration) {
	activeScans.Dec()
	scanDuration.WithLabelValues(result).Observe(d.Seconds())
}

// SetWSConnectionsActive sets the number of connected websocket clients.
func SetWSConnectionsActive(n int) {
	wsConnectionsActive.Set(float64(n))
}

// Middleware records request counts and latency for every gin route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
