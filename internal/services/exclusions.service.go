package services

import (
	"context"
	"path/filepath"
	"runtime"

	"diskmosaic/internal/logging"

	"github.com/shirou/gopsutil/v3/disk"
)

// PathSet is a set of cleaned absolute paths.
type PathSet map[string]struct{}

// NewPathSet builds a set from paths, cleaning each one.
func NewPathSet(paths ...string) PathSet {
	set := make(PathSet, len(paths))
	for _, p := range paths {
		set.Add(p)
	}
	return set
}

// Add inserts p.
func (s PathSet) Add(p string) {
	s[filepath.Clean(p)] = struct{}{}
}

// Contains reports whether p is in the set. A nil set contains nothing.
func (s PathSet) Contains(p string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[filepath.Clean(p)]
	return ok
}

// Union returns a new set holding the paths of s and other.
func (s PathSet) Union(other PathSet) PathSet {
	out := make(PathSet, len(s)+len(other))
	for p := range s {
		out[p] = struct{}{}
	}
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}

// pseudoFilesystems are kernel or virtual filesystems whose sizes are
// meaningless for disk usage.
var pseudoFilesystems = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"devfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"securityfs":  true,
	"debugfs":     true,
	"tracefs":     true,
	"pstore":      true,
	"bpf":         true,
	"autofs":      true,
	"mqueue":      true,
	"hugetlbfs":   true,
	"configfs":    true,
	"fusectl":     true,
	"binfmt_misc": true,
	"nsfs":        true,
	"efivarfs":    true,
	"selinuxfs":   true,
	"rpc_pipefs":  true,
	"fdescfs":     true,
}

// compiledExclusions returns the mount points never worth descending into
// on goos, whether or not they are currently mounted.
func compiledExclusions(goos string) []string {
	switch goos {
	case "linux":
		return []string{"/proc", "/sys", "/dev"}
	case "darwin":
		// The data volume is reachable through firmlinks from "/".
		return []string{"/dev", "/System/Volumes/Data"}
	case "freebsd", "openbsd", "netbsd":
		return []string{"/dev", "/proc"}
	default:
		return nil
	}
}

// IsPseudoFilesystem reports whether fstype is a virtual filesystem.
func IsPseudoFilesystem(fstype string) bool {
	return pseudoFilesystems[fstype]
}

// GetPlatformExclusions returns the compiled-in exclusions for this OS plus
// every currently mounted pseudo filesystem.
func GetPlatformExclusions(ctx context.Context) PathSet {
	set := NewPathSet(compiledExclusions(runtime.GOOS)...)

	partitions, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		logging.Component("exclusions").Debug("could not list partitions", logging.Err(err))
		return set
	}
	for _, mp := range pseudoMountpoints(partitions) {
		set.Add(mp)
	}
	return set
}

// pseudoMountpoints returns the mount points backed only by pseudo
// filesystems. An automount point is listed once as autofs and again as the
// filesystem mounted on it, so a mount point that also carries a real
// filesystem is kept.
func pseudoMountpoints(partitions []disk.PartitionStat) []string {
	backed := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		if !IsPseudoFilesystem(p.Fstype) {
			backed[filepath.Clean(p.Mountpoint)] = true
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, p := range partitions {
		mp := filepath.Clean(p.Mountpoint)
		if !IsPseudoFilesystem(p.Fstype) || backed[mp] || seen[mp] {
			continue
		}
		seen[mp] = true
		out = append(out, mp)
	}
	return out
}
