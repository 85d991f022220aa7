package services

import (
	"context"
	"sync"
	"time"

	"diskmosaic/internal/models"
)

// SystemCache holds mount-derived values with TTL. Listing partitions
// is slow on machines with many mounts.
type SystemCache struct {
	mu             sync.RWMutex
	targets        []models.Target
	targetsTime    time.Time
	exclusions     PathSet
	exclusionsTime time.Time
	ttl            time.Duration
}

var systemCache = &SystemCache{
	ttl: 30 * time.Second,
}

// SetCacheTTL sets the cache time-to-live
func SetCacheTTL(duration time.Duration) {
	systemCache.mu.Lock()
	defer systemCache.mu.Unlock()
	systemCache.ttl = duration
}

// isCacheValid checks if cache is still valid
func (sc *SystemCache) isCacheValid(cacheTime time.Time) bool {
	return time.Since(cacheTime) < sc.ttl
}

// GetCachedTargets returns cached targets if valid, otherwise fetches fresh
func GetCachedTargets(ctx context.Context) ([]models.Target, error) {
	systemCache.mu.RLock()
	if systemCache.isCacheValid(systemCache.targetsTime) && systemCache.targets != nil {
		defer systemCache.mu.RUnlock()
		return systemCache.targets, nil
	}
	systemCache.mu.RUnlock()

	targets, err := GetTargets(ctx)
	if err != nil {
		return nil, err
	}

	systemCache.mu.Lock()
	systemCache.targets = targets
	systemCache.targetsTime = time.Now()
	systemCache.mu.Unlock()

	return targets, nil
}

// GetCachedExclusions returns the platform exclusions, refreshed once the
// TTL has passed. The returned set must not be modified.
func GetCachedExclusions(ctx context.Context) PathSet {
	systemCache.mu.RLock()
	if systemCache.isCacheValid(systemCache.exclusionsTime) && systemCache.exclusions != nil {
		defer systemCache.mu.RUnlock()
		return systemCache.exclusions
	}
	systemCache.mu.RUnlock()

	exclusions := GetPlatformExclusions(ctx)

	systemCache.mu.Lock()
	systemCache.exclusions = exclusions
	systemCache.exclusionsTime = time.Now()
	systemCache.mu.Unlock()

	return exclusions
}

// ClearCache clears all cached values
func ClearCache() {
	systemCache.mu.Lock()
	defer systemCache.mu.Unlock()

	systemCache.targets = nil
	systemCache.exclusions = nil
}
