package services

import (
	"fmt"
	"path/filepath"
	"sync"

	"diskmosaic/internal/config"
	"diskmosaic/internal/logging"
)

// Settings holds the scan preferences that can change at runtime.
// Changes apply to the next scan.
type Settings struct {
	mu                 sync.RWMutex
	ignoredPaths       []string
	smallFileThreshold uint64
	workers            int
}

var settings = &Settings{
	smallFileThreshold: config.DefaultSmallFileThreshold,
}

// InitSettings seeds the runtime settings from configuration.
func InitSettings(cfg *config.Config) *Settings {
	settings.mu.Lock()
	defer settings.mu.Unlock()
	settings.ignoredPaths = append([]string(nil), cfg.IgnoredPaths...)
	settings.smallFileThreshold = cfg.SmallFileThreshold
	settings.workers = cfg.Workers
	return settings
}

// GetSettings returns the runtime settings.
func GetSettings() *Settings {
	return settings
}

// AddIgnoredPath adds an absolute path to the ignore list.
func (s *Settings) AddIgnoredPath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("ignored path %q is not absolute", path)
	}
	path = filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.ignoredPaths {
		if p == path {
			return nil
		}
	}
	s.ignoredPaths = append(s.ignoredPaths, path)
	logging.Component("settings").Info("add ignored path", logging.String("path", path))
	return nil
}

// RemoveIgnoredPath removes path from the ignore list and reports whether it was there.
func (s *Settings) RemoveIgnoredPath(path string) bool {
	path = filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.ignoredPaths {
		if p == path {
			s.ignoredPaths = append(s.ignoredPaths[:i], s.ignoredPaths[i+1:]...)
			return true
		}
	}
	return false
}

// IgnoredPaths returns a copy of the ignore list.
func (s *Settings) IgnoredPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ignoredPaths...)
}

// IsPathIgnored reports whether path is on the ignore list.
func (s *Settings) IsPathIgnored(path string) bool {
	return NewPathSet(s.IgnoredPaths()...).Contains(path)
}

// SmallFileThreshold returns the grouping threshold in bytes.
func (s *Settings) SmallFileThreshold() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.smallFileThreshold
}

// SetSmallFileThreshold changes the grouping threshold. Zero is rejected.
func (s *Settings) SetSmallFileThreshold(threshold uint64) error {
	if threshold == 0 {
		return config.ErrInvalidThreshold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smallFileThreshold = threshold
	return nil
}

// Workers returns the scan worker budget.
func (s *Settings) Workers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workers
}
