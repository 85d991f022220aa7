package services

import (
	"sync"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/models"

	"go.uber.org/zap"
)

// HistoryCollector keeps progress samples of the current scan and a short
// record of past sessions.
type HistoryCollector struct {
	mu             sync.RWMutex
	progress       []models.ProgressSample
	sessions       []models.ScanSummary
	lastSample     time.Time
	sampleInterval time.Duration
	maxDataPoints  int // Keep only this many progress points
	maxSessions    int
}

var historyCollector = &HistoryCollector{
	progress:       []models.ProgressSample{},
	sessions:       []models.ScanSummary{},
	sampleInterval: time.Second,
	maxDataPoints:  300, // 5 minutes at one sample per second
	maxSessions:    50,
}

// recordProgress appends a sample of status if sampleInterval has passed
// since the previous one. Rates are computed against that previous sample.
func recordProgress(status models.ScanStatus) {
	historyCollector.record(time.Now(), status)
}

func (hc *HistoryCollector) record(now time.Time, status models.ScanStatus) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if !hc.lastSample.IsZero() && now.Sub(hc.lastSample) < hc.sampleInterval {
		return
	}

	sample := models.ProgressSample{
		Timestamp:   now,
		Directories: status.Directories,
		Files:       status.Files,
		Bytes:       status.Bytes,
	}
	if n := len(hc.progress); n > 0 {
		prev := hc.progress[n-1]
		if dt := now.Sub(prev.Timestamp).Seconds(); dt > 0 {
			sample.BytesRate = rate(prev.Bytes, status.Bytes, dt)
			sample.FilesRate = rate(prev.Files, status.Files, dt)
		}
	}

	hc.progress = append(hc.progress, sample)
	if len(hc.progress) > hc.maxDataPoints {
		hc.progress = hc.progress[1:]
	}
	hc.lastSample = now
}

// rate is the per-second growth from prev to cur. Counters only grow
// within a session, so a drop means a reset and yields zero.
func rate(prev, cur uint64, seconds float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / seconds
}

// resetProgress drops the samples of the previous session.
func resetProgress() {
	historyCollector.mu.Lock()
	defer historyCollector.mu.Unlock()
	historyCollector.progress = []models.ProgressSample{}
	historyCollector.lastSample = time.Time{}
}

// RecordSession stores the summary of a finished or stopped session.
func RecordSession(summary models.ScanSummary) {
	historyCollector.mu.Lock()
	defer historyCollector.mu.Unlock()

	historyCollector.sessions = append(historyCollector.sessions, summary)
	if len(historyCollector.sessions) > historyCollector.maxSessions {
		historyCollector.sessions = historyCollector.sessions[1:]
	}
	logging.Info("scan session recorded",
		zap.String("session", summary.ID),
		zap.String("root", summary.Root),
		zap.Uint64("files", summary.Files),
		zap.Bool("stopped", summary.Stopped))
}

// GetHistoricalData returns progress samples and sessions newer than duration
func GetHistoricalData(duration time.Duration) models.HistoricalDataWindow {
	historyCollector.mu.RLock()
	defer historyCollector.mu.RUnlock()

	cutoffTime := time.Now().Add(-duration)

	window := models.HistoricalDataWindow{
		Progress: []models.ProgressSample{},
		Sessions: []models.ScanSummary{},
	}
	for _, p := range historyCollector.progress {
		if p.Timestamp.After(cutoffTime) {
			window.Progress = append(window.Progress, p)
		}
	}
	for _, s := range historyCollector.sessions {
		if s.StartedAt.After(cutoffTime) {
			window.Sessions = append(window.Sessions, s)
		}
	}
	return window
}

// GetLatestProgress returns the most recent progress sample
func GetLatestProgress() *models.ProgressSample {
	historyCollector.mu.RLock()
	defer historyCollector.mu.RUnlock()

	if len(historyCollector.progress) == 0 {
		return nil
	}
	latest := historyCollector.progress[len(historyCollector.progress)-1]
	return &latest
}
