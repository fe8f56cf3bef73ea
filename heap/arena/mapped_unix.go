//go:build unix

package arena

import "golang.org/x/sys/unix"

func reserve(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	// Allocation traces touch the heap in no particular order; readahead
	// only wastes commit. The hint is advisory, so a failure is ignored.
	_ = unix.Madvise(data, unix.MADV_RANDOM)
	return data, unix.Munmap, nil
}
