package services

import (
	"testing"
	"time"

	"diskmosaic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector() *HistoryCollector {
	return &HistoryCollector{
		sampleInterval: time.Second,
		maxDataPoints:  3,
		maxSessions:    2,
	}
}

func TestHistoryRecordComputesRates(t *testing.T) {
	hc := newTestCollector()
	start := time.Now()

	hc.record(start, models.ScanStatus{Files: 10, Bytes: 1000})
	hc.record(start.Add(500*time.Millisecond), models.ScanStatus{Files: 99, Bytes: 99})
	hc.record(start.Add(2*time.Second), models.ScanStatus{Files: 30, Bytes: 5000})

	require.Len(t, hc.progress, 2, "samples closer than the interval are dropped")
	assert.InDelta(t, 10.0, hc.progress[1].FilesRate, 1e-9)
	assert.InDelta(t, 2000.0, hc.progress[1].BytesRate, 1e-9)
}

func TestHistoryRecordKeepsMaxPoints(t *testing.T) {
	hc := newTestCollector()
	start := time.Now()
	for i := 0; i < 5; i++ {
		hc.record(start.Add(time.Duration(i)*time.Second), models.ScanStatus{Files: uint64(i)})
	}

	require.Len(t, hc.progress, 3)
	assert.Equal(t, uint64(2), hc.progress[0].Files)
}

func TestRateIgnoresCounterReset(t *testing.T) {
	assert.Zero(t, rate(10, 5, 1))
	assert.InDelta(t, 2.5, rate(0, 5, 2), 1e-9)
}

func TestRecordSessionAndWindow(t *testing.T) {
	old := models.ScanSummary{ID: "old", StartedAt: time.Now().Add(-2 * time.Hour)}
	recent := models.ScanSummary{ID: "recent", StartedAt: time.Now()}
	RecordSession(old)
	RecordSession(recent)

	window := GetHistoricalData(time.Hour)
	ids := []string{}
	for _, s := range window.Sessions {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "recent")
	assert.NotContains(t, ids, "old")
	assert.NotNil(t, window.Progress)
}

func TestResetProgress(t *testing.T) {
	resetProgress()
	recordProgress(models.ScanStatus{Files: 1})
	require.NotNil(t, GetLatestProgress())

	resetProgress()
	assert.Nil(t, GetLatestProgress())
}
