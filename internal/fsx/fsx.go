// Package fsx bundles the filesystem helpers shared by the client:
// directory creation and a free-space preflight for download targets.
package fsx

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/disk"
)

// DefaultMinFreeBytes is the free-space floor applied when callers do not
// pick their own.
const DefaultMinFreeBytes uint64 = 64 << 20

// LowSpaceError reports that a path's filesystem has less free space than
// the configured floor.
type LowSpaceError struct {
	Path string
	Free uint64
	Min  uint64
}

func (e *LowSpaceError) Error() string {
	return fmt.Sprintf("low disk space: path=%s free=%d min=%d", e.Path, e.Free, e.Min)
}

// EnsureDir creates dir along with any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// CheckFreeSpace verifies that the filesystem holding dir has at least min
// bytes free. Probe failures are returned as-is so callers can downgrade
// them to warnings; only a confirmed shortfall yields *LowSpaceError.
func CheckFreeSpace(dir string, min uint64) error {
	usage, err := disk.Usage(dir)
	if err != nil {
		return err
	}
	if usage.Free < min {
		return &LowSpaceError{Path: dir, Free: usage.Free, Min: min}
	}
	return nil
}
