package models

import "time"

// ProgressSample is one point of scan progress
type ProgressSample struct {
	Timestamp   time.Time `json:"timestamp"`
	Directories uint64    `json:"directories"`
	Files       uint64    `json:"files"`
	Bytes       uint64    `json:"bytes"`
	BytesRate   float64   `json:"bytes_rate"` // bytes/sec
	FilesRate   float64   `json:"files_rate"` // files/sec
}

// ScanSummary describes a finished or stopped scan session
type ScanSummary struct {
	ID          string        `json:"id"`
	Root        string        `json:"root"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Directories uint64        `json:"directories"`
	Files       uint64        `json:"files"`
	Bytes       uint64        `json:"bytes"`
	Stopped     bool          `json:"stopped"`
}

// HistoricalDataWindow holds progress samples and past sessions for the dashboard
type HistoricalDataWindow struct {
	Progress []ProgressSample `json:"progress"`
	Sessions []ScanSummary    `json:"sessions"`
}
