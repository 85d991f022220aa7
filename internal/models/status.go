package models

import "time"

// ScanStatus is the progress of the current scan session
type ScanStatus struct {
	ID          string        `json:"id"`
	Root        string        `json:"root"`
	Running     bool          `json:"running"`
	Finished    bool          `json:"finished"`
	Stopping    bool          `json:"stopping"`
	Scanning    string        `json:"scanning"`
	Directories uint64        `json:"directories"`
	Files       uint64        `json:"files"`
	Bytes       uint64        `json:"bytes"`
	StatusLine  string        `json:"status_line"`
	StartedAt   time.Time     `json:"started_at"`
	Elapsed     time.Duration `json:"elapsed"`
}
