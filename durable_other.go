//go:build !linux

package main

import "os"

func adviseSequential(*os.File) error {
	return nil
}

func syncData(f *os.File) error {
	return f.Sync()
}
