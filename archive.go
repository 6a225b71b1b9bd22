package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
)

type pakpack struct {
	collect collectOptions
	paths   *pathEncoder
	logger  *log.Logger
}

// buildState is everything that changes while one archive is written.
// The header fields only become known once contents and table are out,
// which is why the header goes in last.
type buildState struct {
	out     *os.File
	w       *bufio.Writer
	pos     uint64
	header  archiveHeader
	entries []*entry
	codec   *codec
	paths   *pathEncoder
	logger  *log.Logger
}

// archive packs every file found under paths into outFile. On error the
// output is removed: a half written pak has no valid header.
func (p *pakpack) archive(paths []string, outFile string) (hdr archiveHeader, err error) {
	entries := newCollector(p.collect, p.logger).collect(paths)

	c, err := newCodec()
	if err != nil {
		return hdr, err
	}

	outFd, err := os.Create(outFile)
	if err != nil {
		return hdr, fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if err != nil {
			outFd.Close()
			os.Remove(outFile)
		}
	}()

	s := &buildState{
		out:     outFd,
		w:       bufio.NewWriter(outFd),
		header:  newHeader(),
		entries: entries,
		codec:   c,
		paths:   p.paths,
		logger:  p.logger,
	}

	if err = s.writeReserved(); err != nil {
		return hdr, err
	}
	if err = s.writeContents(); err != nil {
		return hdr, err
	}
	if err = s.writeTable(); err != nil {
		return hdr, err
	}
	if err = s.writeHeader(); err != nil {
		return hdr, err
	}
	if err = s.finish(); err != nil {
		return hdr, err
	}

	p.logger.Info("archive written", "path", outFile, "entries", s.header.EntryCount,
		"table_offset", s.header.TableOffset, "bytes", s.pos)

	return s.header, nil
}

func (s *buildState) write(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	s.pos += uint64(len(b))
	return nil
}

// offset returns the current position as a format offset.
func (s *buildState) offset() (uint32, error) {
	if s.pos > math.MaxUint32 {
		return 0, ErrArchiveTooLarge
	}
	return uint32(s.pos), nil
}

// writeReserved fills the head of the file. Content always starts at
// reservedSize; the header is written over the first bytes at the end.
func (s *buildState) writeReserved() error {
	return s.write(zeroes[:reservedSize])
}

func (s *buildState) writeContents() error {
	for _, e := range s.entries {
		if err := s.writeContent(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *buildState) writeContent(e *entry) error {
	offset, err := s.offset()
	if err != nil {
		return err
	}

	data, err := readSource(e.path)
	if err != nil {
		return err
	}

	z, err := s.codec.compress(data)
	if err != nil {
		return fmt.Errorf("%s: %w", e.path, err)
	}

	if err = s.write(z); err != nil {
		return err
	}

	e.record.Offset = offset
	e.record.OriginalSize = uint32(len(data))
	e.record.CompressedSize = uint32(len(z))
	e.record.CompressedDup = e.record.CompressedSize
	s.header.EntryCount++

	s.logger.Info("packed", "path", e.path, "size", len(data), "compressed", len(z))

	return nil
}

// readSource loads a whole file. Sources are read fully before
// compression, so the handle is released before anything is written.
func readSource(path string) ([]byte, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > math.MaxUint32 {
		return nil, fmt.Errorf("%s: %w", path, ErrEntryTooLarge)
	}

	// Only a hint; some filesystems refuse it.
	_ = adviseSequential(in)

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%s: %w", path, ErrEntryTooLarge)
	}

	return data, nil
}

func (s *buildState) writeTable() error {
	offset, err := s.offset()
	if err != nil {
		return err
	}
	s.header.TableOffset = offset

	for _, e := range s.entries {
		field, truncated, err := s.paths.encode(e.name)
		if err != nil {
			return err
		}
		if truncated {
			s.logger.Warn("archive path truncated", "path", e.path, "limit", maxPathChars)
		}
		e.record.Path = field

		if err = binary.Write(s.w, binary.LittleEndian, &e.record); err != nil {
			return fmt.Errorf("writing file table: %w", err)
		}
		s.pos += recordSize
	}

	return nil
}

// writeHeader is the only backward seek: it overwrites the start of the
// reserved block once entry count and table offset are known.
func (s *buildState) writeHeader() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	if _, err := s.out.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to header: %w", err)
	}

	if err := binary.Write(s.out, binary.LittleEndian, &s.header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return nil
}

func (s *buildState) finish() error {
	if err := syncData(s.out); err != nil {
		return fmt.Errorf("syncing archive: %w", err)
	}

	if err := s.out.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}
