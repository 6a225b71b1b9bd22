package main

import "errors"

const reservedSize = 0x400
const headerSize = 256 + 4 + 4 + 4
const recordSize = 256 + 4 + 4 + 4 + 4 + 44
const pathFieldSize = 256
const maxPathChars = pathFieldSize - 2
const pakMagic = "EyedentityGames Packing File 0.1"

// Meaning unknown; written as found in shipped archives.
var pakFlags = [4]byte{0x0b, 0, 0, 0}

var zeroes = make([]byte, reservedSize)

var (
	ErrCodec           = errors.New("compression failed")
	ErrEntryTooLarge   = errors.New("file too large for a pak entry")
	ErrArchiveTooLarge = errors.New("archive exceeds 4GiB offset limit")
	ErrNotRegular      = errors.New("not a regular file or directory")
)

type archiveHeader struct {
	Magic       [256]byte
	Flags       [4]byte
	EntryCount  uint32
	TableOffset uint32
}

type fileRecord struct {
	Path           [pathFieldSize]byte
	CompressedSize uint32
	OriginalSize   uint32
	CompressedDup  uint32
	Offset         uint32
	Reserved       [44]byte
}

type entry struct {
	// path on the local filesystem, used to open the source
	path string
	// name as stored in the archive, '/' separated, before encoding
	name   string
	record fileRecord
}

func newHeader() archiveHeader {
	var h archiveHeader
	copy(h.Magic[:], pakMagic)
	h.Flags = pakFlags
	return h
}
