package services

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/metrics"
	"diskmosaic/internal/models"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/unicode/norm"
)

// ScanOptions configures one scan session.
type ScanOptions struct {
	// Cancel stops the dispatch of new entries when set.
	Cancel *CancelToken
	// Ignore holds absolute directory paths that are never entered.
	Ignore PathSet
	// Exclusions holds platform mount points that are never entered.
	Exclusions PathSet
	// SmallFileThreshold is the size below which files are grouped into one
	// bucket per directory. Must be positive.
	SmallFileThreshold uint64
	// Sender receives the progress messages. It may be nil.
	Sender *Sender
	// Workers bounds the number of goroutines running scan work.
	Workers int
}

// Scanner walks a directory tree in parallel and builds its sized node tree.
// A Scanner is good for one session: its color sequence and worker budget
// belong to that session.
type Scanner struct {
	fs   billy.Filesystem
	opts ScanOptions
	sem  *semaphore.Weighted
	skip PathSet
	seq  atomic.Uint64
	log  *zap.Logger
}

// NewScanner returns a scanner reading through fs.
func NewScanner(fs billy.Filesystem, opts ScanOptions) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.SmallFileThreshold == 0 {
		opts.SmallFileThreshold = 1
	}
	return &Scanner{
		fs:   fs,
		opts: opts,
		sem:  semaphore.NewWeighted(int64(opts.Workers)),
		skip: opts.Ignore.Union(opts.Exclusions),
		log:  logging.Component("scanner"),
	}
}

// Scan builds the tree rooted at root and blocks until every dispatched
// branch has joined. Filesystem errors never abort the scan; they only leave
// the affected directory or entry out of the result.
func (s *Scanner) Scan(root string) *models.Node {
	root = filepath.Clean(root)
	node, err := s.scanDir(root, displayName(root))
	if err != nil {
		s.log.Warn("scan aborted early", zap.String("path", root), zap.Error(err))
	}
	return node
}

func (s *Scanner) nextColor() models.Color {
	return models.ColorAt(s.seq.Add(1))
}

func (s *Scanner) send(msg models.Message) error {
	if s.opts.Sender == nil {
		return nil
	}
	return s.opts.Sender.Send(msg)
}

func (s *Scanner) skipDir(path string) bool {
	return s.skip.Contains(path)
}

// scanDir builds one directory level. The returned error is only ever
// ErrReceiverClosed; the node is valid in every case.
func (s *Scanner) scanDir(dirPath, name string) (*models.Node, error) {
	node := models.NewDirectory(name, s.nextColor())

	if err := s.send(models.DirectoryScanStartMessage{Path: norm.NFC.String(dirPath)}); err != nil {
		s.log.Warn("stopping branch, receiver gone", zap.String("path", dirPath), zap.Error(err))
		return node, err
	}

	entries, err := s.fs.ReadDir(dirPath)
	if err != nil {
		s.log.Debug("could not read directory",
			zap.String("path", dirPath),
			zap.String("reason", readDirReason(err)),
			zap.Error(err))
		metrics.RecordScanError("readdir")
		entries = nil
	}
	metrics.RecordDirectory()

	var (
		bucket  smallFileBucket
		results = make([]*models.Node, len(entries))
		g       errgroup.Group
	)

	for i, info := range entries {
		if s.opts.Cancel.Cancelled() {
			s.log.Debug("stop requested", zap.String("path", dirPath), zap.Int("skipped", len(entries)-i))
			break
		}

		work := func() error {
			if s.opts.Cancel.Cancelled() {
				return nil
			}
			results[i] = s.scanEntry(dirPath, info, &bucket)
			return nil
		}

		// A full pool runs the entry on this goroutine, so a parent waiting
		// for its children can never starve them of workers.
		if s.sem.TryAcquire(1) {
			g.Go(func() error {
				defer s.sem.Release(1)
				return work()
			})
		} else {
			_ = work()
		}
	}
	_ = g.Wait()

	var levelFiles models.ScanResult
	children := make([]*models.Node, 0, len(results)+1)
	for _, child := range results {
		if child == nil {
			continue
		}
		if child.Tag() == models.KindFile {
			levelFiles.AddFile(child.Size)
		}
		children = append(children, child)
	}
	levelFiles.Merge(bucket.stats())
	if b := bucket.node(s.nextColor()); b != nil {
		children = append(children, b)
	}

	node.Kind = &models.Directory{Children: children}
	node.SumChildren()
	metrics.RecordFiles(levelFiles.FileCount, levelFiles.Size)

	if err := s.send(models.DirectoryScanDoneMessage{Result: levelFiles}); err != nil {
		s.log.Warn("stopping branch, receiver gone", zap.String("path", dirPath), zap.Error(err))
		return node, err
	}
	return node, nil
}

// scanEntry turns one directory entry into a node. It returns nil for
// entries that are skipped, ignored, or folded into the bucket.
func (s *Scanner) scanEntry(dirPath string, info os.FileInfo, bucket *smallFileBucket) *models.Node {
	if info == nil {
		return nil
	}
	path := filepath.Join(dirPath, info.Name())
	name := norm.NFC.String(info.Name())
	mode := info.Mode()

	switch {
	case mode.IsDir():
		if s.skipDir(path) {
			s.log.Debug("skipping excluded directory", zap.String("path", path))
			return nil
		}
		child, _ := s.scanDir(path, name)
		return child

	case mode.IsRegular():
		// ReadDir already lstat'ed the entry.
		size := uint64(info.Size())
		if size >= s.opts.SmallFileThreshold {
			return models.NewFile(name, size, s.nextColor())
		}
		bucket.add(size)
		return nil

	default:
		// Symlinks, sockets, devices and pipes.
		return nil
	}
}

// readDirReason classifies a ReadDir failure for the log.
func readDirReason(err error) string {
	switch {
	case errors.Is(err, os.ErrPermission):
		return "permission_denied"
	case errors.Is(err, os.ErrNotExist):
		return "not_found"
	default:
		return "io"
	}
}

// displayName returns the final path component in NFC form, or the path
// itself for a filesystem root.
func displayName(path string) string {
	base := filepath.Base(path)
	if base == string(filepath.Separator) || base == "." || base == "" {
		base = path
	}
	return norm.NFC.String(base)
}
