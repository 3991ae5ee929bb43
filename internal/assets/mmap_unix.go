//go:build unix

package assets

import (
	"os"

	"golang.org/x/sys/unix"
)

// readMapped maps f read-only and copies the contents out, so callers never
// hold a mapping. Empty files and mmap failures report ok=false.
func readMapped(f *os.File, size int) ([]byte, bool) {
	if size <= 0 {
		return nil, false
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false
	}
	out := make([]byte, size)
	copy(out, data)
	_ = unix.Munmap(data)
	return out, true
}
