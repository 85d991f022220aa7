package models

// Target is a mounted filesystem that can be scanned
type Target struct {
	MountPoint     string  `json:"mount_point"`
	Device         string  `json:"device"`
	Filesystem     string  `json:"filesystem"`
	TotalBytes     uint64  `json:"total_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
	Label          string  `json:"label"`
}
