package models

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is returned when a structural edit targets a leaf node.
var ErrNotDirectory = errors.New("node is not a directory")

// Bounds is the rectangle an external layout assigns to a node.
// The scan core never reads it.
type Bounds struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Node represents one filesystem entry in a scan tree
type Node struct {
	Name   string `json:"name"`
	Size   uint64 `json:"size"`
	Kind   Kind   `json:"-"`
	Color  Color  `json:"color"`
	Bounds Bounds `json:"bounds"`
}

// NewDirectory returns an empty directory node.
func NewDirectory(name string, color Color) *Node {
	return &Node{Name: name, Kind: &Directory{}, Color: color}
}

// NewFile returns a file leaf of the given size.
func NewFile(name string, size uint64, color Color) *Node {
	return &Node{Name: name, Size: size, Kind: File{}, Color: color}
}

// NewSmallFilesBucket returns the synthetic leaf grouping count files totalling size bytes.
func NewSmallFilesBucket(count, size uint64, color Color) *Node {
	return &Node{
		Name:  fmt.Sprintf("%d small files", count),
		Size:  size,
		Kind:  SmallFilesBucket{Count: count},
		Color: color,
	}
}

// Tag returns the variant tag of the node's kind.
func (n *Node) Tag() KindTag {
	if n.Kind == nil {
		return KindFile
	}
	return n.Kind.Tag()
}

// IsDir reports whether the node is a directory and can be zoomed into.
func (n *Node) IsDir() bool {
	_, ok := n.Kind.(*Directory)
	return ok
}

// Children returns the children of a directory, or nil for a leaf.
func (n *Node) Children() []*Node {
	if dir, ok := n.Kind.(*Directory); ok {
		return dir.Children
	}
	return nil
}

// Push appends child to the directory without touching sizes.
func (n *Node) Push(child *Node) error {
	dir, ok := n.Kind.(*Directory)
	if !ok {
		return fmt.Errorf("push %q into %q: %w", child.Name, n.Name, ErrNotDirectory)
	}
	dir.Children = append(dir.Children, child)
	return nil
}

// TakeChild removes and returns the child at index. The last child is moved
// into the vacated slot, so sibling order changes.
func (n *Node) TakeChild(index int) (*Node, error) {
	dir, ok := n.Kind.(*Directory)
	if !ok {
		return nil, fmt.Errorf("take child %d of %q: %w", index, n.Name, ErrNotDirectory)
	}
	if index < 0 || index >= len(dir.Children) {
		return nil, fmt.Errorf("take child %d of %q: index out of range [0,%d)", index, n.Name, len(dir.Children))
	}
	last := len(dir.Children) - 1
	taken := dir.Children[index]
	dir.Children[index] = dir.Children[last]
	dir.Children[last] = nil
	dir.Children = dir.Children[:last]
	return taken, nil
}

// SumChildren sets a directory's size to the sum of its direct children and
// returns it. Leaves keep their size.
func (n *Node) SumChildren() uint64 {
	if dir, ok := n.Kind.(*Directory); ok {
		var total uint64
		for _, child := range dir.Children {
			total += child.Size
		}
		n.Size = total
	}
	return n.Size
}

// CountNodes counts n and all of its descendants.
func CountNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children() {
		count += CountNodes(child)
	}
	return count
}
