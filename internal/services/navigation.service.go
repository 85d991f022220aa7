package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/models"

	"go.uber.org/zap"
)

// ErrIndexOutOfRange is returned for a zoom index outside the children or stack.
var ErrIndexOutOfRange = errors.New("index out of range")

// NavigationStack is the path of directories the user has entered.
// Entry 0 is the scan root; every other entry was taken out of the
// children of the entry below it and is given back on zoom out.
//
// Zooming never recomputes sizes, and sibling order is not preserved
// across a zoom in / zoom out round trip.
type NavigationStack struct {
	nodes []*models.Node
	log   *zap.Logger
}

// NewNavigationStack returns a stack holding only root.
func NewNavigationStack(root *models.Node) *NavigationStack {
	return &NavigationStack{
		nodes: []*models.Node{root},
		log:   logging.Component("navigation"),
	}
}

// Len returns the number of entered levels, including the root.
func (s *NavigationStack) Len() int {
	return len(s.nodes)
}

// Top returns the directory currently displayed.
func (s *NavigationStack) Top() *models.Node {
	return s.nodes[len(s.nodes)-1]
}

// At returns the entry at index i.
func (s *NavigationStack) At(i int) *models.Node {
	return s.nodes[i]
}

// Path returns the names of the entered levels, root first.
func (s *NavigationStack) Path() []string {
	names := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		names[i] = n.Name
	}
	return names
}

// FullPath joins the names entered above entry 0 onto base, the path
// entry 0 stands for.
func (s *NavigationStack) FullPath(base string) string {
	parts := append([]string{base}, s.Path()[1:]...)
	return filepath.Join(parts...)
}

// ZoomIn enters the child at index of the current top. The child must be a
// directory; otherwise nothing changes and the error is logged.
func (s *NavigationStack) ZoomIn(index int) error {
	top := s.Top()
	children := top.Children()
	if !top.IsDir() {
		err := fmt.Errorf("zoom into %q: %w", top.Name, models.ErrNotDirectory)
		s.log.Error("invalid navigation state", zap.Error(err))
		return err
	}
	if index < 0 || index >= len(children) {
		err := fmt.Errorf("zoom into child %d of %q: %w", index, top.Name, ErrIndexOutOfRange)
		s.log.Debug("ignoring zoom", zap.Error(err))
		return err
	}
	if !children[index].IsDir() {
		err := fmt.Errorf("zoom into %q: %w", children[index].Name, models.ErrNotDirectory)
		s.log.Debug("ignoring zoom", zap.Error(err))
		return err
	}

	taken, err := top.TakeChild(index)
	if err != nil {
		s.log.Error("could not take child", zap.Error(err))
		return err
	}
	s.nodes = append(s.nodes, taken)
	return nil
}

// ZoomOutTo pops levels until target is the top, handing every popped
// directory back to its parent. It never pops the root and does nothing
// when target is already the top (or above it).
func (s *NavigationStack) ZoomOutTo(target int) {
	if target < 0 {
		target = 0
	}
	for len(s.nodes)-1 > target {
		last := len(s.nodes) - 1
		popped := s.nodes[last]
		parent := s.nodes[last-1]
		if err := parent.Push(popped); err != nil {
			s.log.Error("invalid navigation state", zap.Error(err))
			return
		}
		s.nodes[last] = nil
		s.nodes = s.nodes[:last]
	}
}

// ZoomOut goes up one level.
func (s *NavigationStack) ZoomOut() {
	s.ZoomOutTo(len(s.nodes) - 2)
}

// AddData appends a finished subtree to the current top. Every entered level
// grows by the subtree's size, so sizes stay consistent after zooming out.
func (s *NavigationStack) AddData(node *models.Node) error {
	if err := s.Top().Push(node); err != nil {
		s.log.Error("dropping data", zap.Error(err))
		return err
	}
	for _, level := range s.nodes {
		level.Size += node.Size
	}
	return nil
}
