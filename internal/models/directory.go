package models

// ChildView describes one child of the directory currently displayed
type ChildView struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Kind      KindTag `json:"kind"`
	SizeBytes uint64  `json:"size_bytes"`
	Size      string  `json:"size"` // Human-readable size like "12.5 GB"
	Count     uint64  `json:"count,omitempty"`
	Color     string  `json:"color"`
	Bounds    Bounds  `json:"bounds"`
}

// View is the current top of the navigation stack
type View struct {
	Path      []string    `json:"path"`
	FullPath  string      `json:"full_path"`
	Depth     int         `json:"depth"`
	SizeBytes uint64      `json:"size_bytes"`
	Size      string      `json:"size"`
	Children  []ChildView `json:"children"`
}
