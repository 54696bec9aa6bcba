//go:build !unix

package mmfile

import (
	"fmt"
	"os"
)

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	if info.Size() > MaxSize {
		return nil, func() error { return nil }, fmt.Errorf("mmfile: %s is %d bytes, limit is %d", path, info.Size(), MaxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
