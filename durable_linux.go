//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the whole source is about to be read
// once, front to back.
func adviseSequential(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

// syncData makes the archive contents durable. Metadata like mtime is not
// needed for the archive to be readable, so fdatasync is enough.
func syncData(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
