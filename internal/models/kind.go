package models

// KindTag names the variant of a Kind without exposing its payload.
type KindTag string

const (
	KindDirectory  KindTag = "directory"
	KindFile       KindTag = "file"
	KindSmallFiles KindTag = "small_files"
)

// Kind is the closed set of node variants: *Directory, File and SmallFilesBucket.
type Kind interface {
	Tag() KindTag
	isKind()
}

// Directory owns the ordered children of a directory node.
// Order is not stable across zoom operations.
type Directory struct {
	Children []*Node
}

func (*Directory) Tag() KindTag { return KindDirectory }
func (*Directory) isKind()      {}

// File is a regular file leaf.
type File struct{}

func (File) Tag() KindTag { return KindFile }
func (File) isKind()      {}

// SmallFilesBucket is the synthetic leaf that stands for every file of a
// directory below the small-file threshold.
type SmallFilesBucket struct {
	Count uint64
}

func (SmallFilesBucket) Tag() KindTag { return KindSmallFiles }
func (SmallFilesBucket) isKind()      {}
