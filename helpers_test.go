package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	name    string
	size    int
	content byte
}

func fillFile(path string, c byte, size int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	f2 := bufio.NewWriter(f)
	defer f2.Flush()

	for i := 0; i < size; i++ {
		// Vary the bytes a little so blocks don't collapse to nothing.
		if err := f2.WriteByte(c + byte(i%7)); err != nil {
			return err
		}
	}

	return nil
}

// makeTree creates files under dir. Names ending in '/' are directories.
func makeTree(t *testing.T, dir string, files []testFile) {
	t.Helper()

	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f.name))
		if f.name[len(f.name)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, fillFile(p, f.content, f.size))
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestPacker(t *testing.T, opts collectOptions) *pakpack {
	t.Helper()

	paths, err := newPathEncoder("")
	require.NoError(t, err)

	return &pakpack{
		collect: opts,
		paths:   paths,
		logger:  discardLogger(),
	}
}

type parsedArchive struct {
	raw     []byte
	header  archiveHeader
	records []fileRecord
}

// parseArchive reads back header and file table of a written pak.
func parseArchive(t *testing.T, path string) parsedArchive {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), reservedSize)

	var a parsedArchive
	a.raw = raw
	require.NoError(t, binary.Read(bytes.NewReader(raw), binary.LittleEndian, &a.header))

	require.LessOrEqual(t, int(a.header.TableOffset), len(raw))
	table := bytes.NewReader(raw[a.header.TableOffset:])
	for i := uint32(0); i < a.header.EntryCount; i++ {
		var r fileRecord
		require.NoError(t, binary.Read(table, binary.LittleEndian, &r))
		a.records = append(a.records, r)
	}
	require.Zero(t, table.Len(), "trailing data after file table")

	return a
}

// content returns the inflated data of a record.
func (a parsedArchive) content(t *testing.T, r fileRecord) []byte {
	t.Helper()

	end := uint64(r.Offset) + uint64(r.CompressedSize)
	require.LessOrEqual(t, end, uint64(len(a.raw)))

	return inflate(t, a.raw[r.Offset:end])
}

func inflate(t *testing.T, z []byte) []byte {
	t.Helper()

	zr, err := zlib.NewReader(bytes.NewReader(z))
	require.NoError(t, err)
	defer zr.Close()

	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	return data
}

// recordName decodes a path field back into "\a\b" form.
func recordName(r fileRecord) string {
	n := bytes.IndexByte(r.Path[:], 0)
	if n < 0 {
		n = len(r.Path)
	}
	return string(r.Path[:n])
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
