package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/models"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"
)

var (
	// ErrNoSession is returned when no scan has been started.
	ErrNoSession = errors.New("no scan session")
	// ErrRelativeRoot is returned for scan roots that are not absolute.
	ErrRelativeRoot = errors.New("scan root must be an absolute path")
)

// SessionManager holds the current scan session and the ticker that
// drives its consumer loop.
type SessionManager struct {
	mu      sync.RWMutex
	fs      billy.Filesystem
	current *Analyzer
	running bool
	stop    chan struct{}
}

var sessions = &SessionManager{
	fs: osfs.New("/"),
}

// SetFilesystem replaces the filesystem new scans read from.
func SetFilesystem(fs billy.Filesystem) {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	sessions.fs = fs
}

// StartScan validates root and replaces the current session with a new
// scan of it. The previous session is stopped and dropped.
func StartScan(ctx context.Context, root string) (*Analyzer, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("%q: %w", root, ErrRelativeRoot)
	}
	root = filepath.Clean(root)

	sessions.mu.RLock()
	fs := sessions.fs
	sessions.mu.RUnlock()

	info, err := fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("scan root %q: %w", root, err)
		}
		return nil, fmt.Errorf("stat %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %q: %w", root, models.ErrNotDirectory)
	}

	s := GetSettings()
	analyzer := NewAnalyzer(root, AnalyzerOptions{
		Filesystem:         fs,
		Ignore:             NewPathSet(s.IgnoredPaths()...),
		Exclusions:         GetCachedExclusions(ctx),
		SmallFileThreshold: s.SmallFileThreshold(),
		Workers:            s.Workers(),
	})
	resetProgress()

	sessions.mu.Lock()
	previous := sessions.current
	sessions.current = analyzer
	sessions.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	BroadcastEvent(EventScanStarted, analyzer.Status())
	return analyzer, nil
}

// CurrentAnalyzer returns the current scan session.
func CurrentAnalyzer() (*Analyzer, error) {
	sessions.mu.RLock()
	defer sessions.mu.RUnlock()
	if sessions.current == nil {
		return nil, ErrNoSession
	}
	return sessions.current, nil
}

// StopScan asks the current scan to stop. The partial tree stays browsable.
func StopScan() error {
	a, err := CurrentAnalyzer()
	if err != nil {
		return err
	}
	a.Stop()
	return nil
}

// closeSession drops the current session. Used on shutdown and in tests.
func closeSession() {
	sessions.mu.Lock()
	current := sessions.current
	sessions.current = nil
	sessions.mu.Unlock()
	if current != nil {
		current.Close()
	}
}

// StartAnalyzerTicker drains the current session every interval and pushes
// changes to websocket clients.
func StartAnalyzerTicker(interval time.Duration) {
	sessions.mu.Lock()
	if sessions.running {
		sessions.mu.Unlock()
		return
	}
	sessions.running = true
	sessions.stop = make(chan struct{})
	stop := sessions.stop
	sessions.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				tickSession()
			}
		}
	}()

	logging.Info("analyzer ticker started", zap.Duration("interval", interval))
}

// StopAnalyzerTicker stops the ticker and the current session.
func StopAnalyzerTicker() {
	sessions.mu.Lock()
	if sessions.running {
		close(sessions.stop)
		sessions.running = false
	}
	sessions.mu.Unlock()
	closeSession()
	logging.Info("analyzer ticker stopped")
}

// tickSession runs one consumer step on the current session.
func tickSession() {
	a, err := CurrentAnalyzer()
	if err != nil {
		return
	}

	if a.Tick() {
		summary := a.Summary()
		RecordSession(summary)
		BroadcastEvent(EventScanFinished, summary)
	}
	if a.TakeDirty() {
		BroadcastEvent(EventViewChanged, a.View())
	}
	if a.Running() {
		status := a.Status()
		recordProgress(status)
		BroadcastEvent(EventScanStatus, status)
	}
}
