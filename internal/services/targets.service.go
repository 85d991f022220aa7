package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"
)

// hiddenTarget reports mount points that duplicate another target on goos.
func hiddenTarget(goos, mountPoint string) bool {
	// The macOS data volume is the same storage as "/".
	return goos == "darwin" && mountPoint == "/System/Volumes/Data"
}

// GetTargets returns every mounted filesystem worth scanning, with usage.
func GetTargets(ctx context.Context) ([]models.Target, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	targets := make([]models.Target, 0, len(partitions))
	seen := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		if seen[p.Mountpoint] || IsPseudoFilesystem(p.Fstype) || hiddenTarget(runtime.GOOS, p.Mountpoint) {
			continue
		}
		seen[p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			logging.Warn("could not get disk usage", zap.String("mount_point", p.Mountpoint), zap.Error(err))
			continue
		}
		targets = append(targets, newTarget(p, usage))
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].MountPoint < targets[j].MountPoint
	})
	return targets, nil
}

func newTarget(p disk.PartitionStat, usage *disk.UsageStat) models.Target {
	return models.Target{
		MountPoint:     p.Mountpoint,
		Device:         p.Device,
		Filesystem:     p.Fstype,
		TotalBytes:     usage.Total,
		UsedBytes:      usage.Used,
		AvailableBytes: usage.Free,
		UsagePercent:   usage.UsedPercent,
		Label:          targetLabel(p.Mountpoint, usage.Used, usage.Total),
	}
}

// targetLabel renders "mount (used of total)".
func targetLabel(mountPoint string, used, total uint64) string {
	return fmt.Sprintf("%s (%s of %s)", mountPoint, humanize.Bytes(used), humanize.Bytes(total))
}
