package services

import (
	"sync/atomic"

	"diskmosaic/internal/models"
)

// smallFileBucket accumulates the files of one directory level that fall
// below the small-file threshold. Workers add to it concurrently; it is
// folded into a node once the level has joined.
type smallFileBucket struct {
	count atomic.Uint64
	size  atomic.Uint64
}

func (b *smallFileBucket) add(size uint64) {
	b.count.Add(1)
	b.size.Add(size)
}

func (b *smallFileBucket) stats() models.ScanResult {
	return models.ScanResult{FileCount: b.count.Load(), Size: b.size.Load()}
}

// node returns the bucket leaf, or nil when the grouped files hold no bytes.
func (b *smallFileBucket) node(color models.Color) *models.Node {
	s := b.stats()
	if s.Size < 1 {
		return nil
	}
	return models.NewSmallFilesBucket(s.FileCount, s.Size, color)
}
