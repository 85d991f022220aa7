package services

import "sync/atomic"

// CancelToken is the cooperative stop flag shared by every worker of a scan.
// Work already running is not interrupted; only new work is suppressed.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken returns a token that is not cancelled.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests that no new scan work is started.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Cancelled reports whether Cancel was called. A nil token is never cancelled.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.flag.Load()
}
