package models

// ScanResult is a running file count and byte total.
// Results combine by addition, so arrival order never matters.
type ScanResult struct {
	FileCount uint64 `json:"file_count"`
	Size      uint64 `json:"size"`
}

// AddFile accounts for one file of the given size.
func (r *ScanResult) AddFile(size uint64) {
	r.FileCount++
	r.Size += size
}

// Merge adds other into r.
func (r *ScanResult) Merge(other ScanResult) {
	r.FileCount += other.FileCount
	r.Size += other.Size
}

// Add returns the sum of r and other.
func (r ScanResult) Add(other ScanResult) ScanResult {
	r.Merge(other)
	return r
}
