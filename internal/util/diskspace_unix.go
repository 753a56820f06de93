//go:build !windows

package util

import (
	"syscall"
)

func GetDiskSpace(path string) (DiskSpace, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return DiskSpace{}, err
	}
	return DiskSpace{
		Free:  stat.Bavail * uint64(stat.Bsize),
		Total: stat.Blocks * uint64(stat.Bsize),
	}, nil
}
