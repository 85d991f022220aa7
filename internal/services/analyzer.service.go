package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/metrics"
	"diskmosaic/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyzerOptions configures a scan session.
type AnalyzerOptions struct {
	Filesystem         billy.Filesystem
	Ignore             PathSet
	Exclusions         PathSet
	SmallFileThreshold uint64
	Workers            int
}

// Analyzer owns one scan session: a background goroutine running the scan
// and the consumer state the messages are folded into. Tick drains the
// messages; the zoom methods edit the navigation stack. All consumer state
// is guarded by mu because HTTP and websocket handlers call in from their
// own goroutines.
type Analyzer struct {
	id        string
	root      string
	base      string
	startedAt time.Time

	rx     *Receiver
	cancel *CancelToken
	done   chan struct{}

	mu                 sync.Mutex
	stack              *NavigationStack
	scanning           string
	scannedDirectories uint64
	scanResult         models.ScanResult
	dirty              bool
	finished           bool
	elapsed            time.Duration

	log *zap.Logger
}

// newAnalyzer builds the consumer state without starting a scan.
func newAnalyzer(root string, rx *Receiver) *Analyzer {
	root = filepath.Clean(root)
	base := filepath.Dir(root)
	id := uuid.NewString()
	return &Analyzer{
		id:        id,
		root:      root,
		base:      base,
		startedAt: time.Now(),
		rx:        rx,
		cancel:    NewCancelToken(),
		done:      make(chan struct{}),
		stack:     NewNavigationStack(models.NewDirectory(base, 0)),
		log:       logging.Component("analyzer").With(zap.String("session", id)),
	}
}

// NewAnalyzer starts scanning root in the background and returns at once.
func NewAnalyzer(root string, opts AnalyzerOptions) *Analyzer {
	tx, rx := NewChannel()
	a := newAnalyzer(root, rx)

	scanner := NewScanner(opts.Filesystem, ScanOptions{
		Cancel:             a.cancel,
		Ignore:             opts.Ignore,
		Exclusions:         opts.Exclusions,
		SmallFileThreshold: opts.SmallFileThreshold,
		Sender:             tx,
		Workers:            opts.Workers,
	})

	metrics.ScanStarted()
	a.log.Info("scan started", zap.String("root", a.root))

	go func() {
		defer close(a.done)

		start := time.Now()
		node := scanner.Scan(a.root)
		if err := tx.Send(models.DataMessage{Node: node}); err != nil {
			a.log.Warn("could not send scan result", zap.Error(err))
		}

		elapsed := time.Since(start)
		a.mu.Lock()
		a.elapsed = elapsed
		a.mu.Unlock()

		result := "completed"
		if a.cancel.Cancelled() {
			result = "stopped"
		}
		metrics.ScanFinished(result, elapsed)

		if err := tx.Send(models.FinishedMessage{}); err != nil {
			a.log.Warn("could not send finished", zap.Error(err))
		}
		a.log.Info("scan done", zap.String("result", result), zap.Int64("elapsed_ms", elapsed.Milliseconds()))
	}()

	return a
}

// ID returns the session id.
func (a *Analyzer) ID() string {
	return a.id
}

// Root returns the scanned directory.
func (a *Analyzer) Root() string {
	return a.root
}

// Tick folds every queued message into the consumer state without
// blocking. It returns true when the Finished message was among them.
func (a *Analyzer) Tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	finished := false
	for _, msg := range a.rx.Drain() {
		if a.apply(msg) {
			finished = true
		}
	}
	return finished
}

// apply folds one message. Callers hold mu.
func (a *Analyzer) apply(msg models.Message) bool {
	switch m := msg.(type) {
	case models.DataMessage:
		if m.Node != nil && m.Node.Size > 0 {
			if err := a.stack.AddData(m.Node); err == nil {
				a.dirty = true
			}
		}
	case models.DirectoryScanStartMessage:
		a.scanning = m.Path
		a.scannedDirectories++
	case models.DirectoryScanDoneMessage:
		a.scanResult.Merge(m.Result)
	case models.FinishedMessage:
		a.log.Info("scan finished")
		a.finished = true
		return true
	default:
		a.log.Error("unknown message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
	return false
}

// Running reports whether the background scan is still going. It never blocks.
func (a *Analyzer) Running() bool {
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the background scan has returned or ctx is done.
func (a *Analyzer) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks the scan to dispatch no new work. Work in flight completes.
func (a *Analyzer) Stop() {
	if !a.cancel.Cancelled() {
		a.log.Info("stop requested")
	}
	a.cancel.Cancel()
}

// Close stops the scan and drops the receiver, so remaining branches stop
// sending.
func (a *Analyzer) Close() {
	a.Stop()
	a.rx.Close()
}

// TakeDirty reports whether the displayed directory changed since the last call.
func (a *Analyzer) TakeDirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	dirty := a.dirty
	a.dirty = false
	return dirty
}

// ZoomIn enters the child at index of the displayed directory.
func (a *Analyzer) ZoomIn(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.stack.ZoomIn(index); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

// ZoomOutTo goes back to level target of the path.
func (a *Analyzer) ZoomOutTo(target int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	before := a.stack.Len()
	a.stack.ZoomOutTo(target)
	if a.stack.Len() != before {
		a.dirty = true
	}
}

// ZoomOut goes up one level.
func (a *Analyzer) ZoomOut() {
	a.mu.Lock()
	defer a.mu.Unlock()
	before := a.stack.Len()
	a.stack.ZoomOut()
	if a.stack.Len() != before {
		a.dirty = true
	}
}

// SetBounds stores layout rectangles for the displayed children, by index.
func (a *Analyzer) SetBounds(bounds map[int]models.Bounds) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	children := a.stack.Top().Children()
	for i := range bounds {
		if i < 0 || i >= len(children) {
			return fmt.Errorf("bounds for child %d: %w", i, ErrIndexOutOfRange)
		}
	}
	for i, b := range bounds {
		children[i].Bounds = b
	}
	return nil
}

// Status returns the progress counters of the session.
func (a *Analyzer) Status() models.ScanStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	elapsed := a.elapsed
	running := a.Running()
	if running {
		elapsed = time.Since(a.startedAt)
	}
	return models.ScanStatus{
		ID:          a.id,
		Root:        a.root,
		Running:     running,
		Finished:    a.finished,
		Stopping:    running && a.cancel.Cancelled(),
		Scanning:    a.scanning,
		Directories: a.scannedDirectories,
		Files:       a.scanResult.FileCount,
		Bytes:       a.scanResult.Size,
		StatusLine:  statusLine(a.scannedDirectories, a.scanResult),
		StartedAt:   a.startedAt,
		Elapsed:     elapsed,
	}
}

// Summary returns the session record kept in the history.
func (a *Analyzer) Summary() models.ScanSummary {
	st := a.Status()
	return models.ScanSummary{
		ID:          st.ID,
		Root:        st.Root,
		StartedAt:   st.StartedAt,
		Duration:    st.Elapsed,
		Directories: st.Directories,
		Files:       st.Files,
		Bytes:       st.Bytes,
		Stopped:     a.cancel.Cancelled(),
	}
}

// View describes the displayed directory for an external layout.
func (a *Analyzer) View() models.View {
	a.mu.Lock()
	defer a.mu.Unlock()

	top := a.stack.Top()
	children := top.Children()
	view := models.View{
		Path:      a.stack.Path(),
		FullPath:  a.stack.FullPath(a.base),
		Depth:     a.stack.Len() - 1,
		SizeBytes: top.Size,
		Size:      humanize.Bytes(top.Size),
		Children:  make([]models.ChildView, 0, len(children)),
	}
	for i, child := range children {
		cv := models.ChildView{
			Index:     i,
			Name:      child.Name,
			Kind:      child.Tag(),
			SizeBytes: child.Size,
			Size:      humanize.Bytes(child.Size),
			Color:     child.Color.Hex(),
			Bounds:    child.Bounds,
		}
		if bucket, ok := child.Kind.(models.SmallFilesBucket); ok {
			cv.Count = bucket.Count
		}
		view.Children = append(view.Children, cv)
	}
	return view
}

// statusLine renders the counters the way the status bar shows them.
func statusLine(dirs uint64, r models.ScanResult) string {
	return fmt.Sprintf("Directories: %d, Files: %d, Volume %s", dirs, r.FileCount, humanize.Bytes(r.Size))
}
