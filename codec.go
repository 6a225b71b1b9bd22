package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// compressLevel trades ratio for speed; clients inflate whatever level was used.
const compressLevel = zlib.BestSpeed

// codec turns file contents into a zlib stream. The encoder and output
// buffer are reused across entries.
type codec struct {
	zw  *zlib.Writer
	buf bytes.Buffer
}

func newCodec() (*codec, error) {
	zw, err := zlib.NewWriterLevel(io.Discard, compressLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return &codec{zw: zw}, nil
}

// compress returns the zlib stream for src. The slice is only valid until
// the next call.
func (c *codec) compress(src []byte) ([]byte, error) {
	c.buf.Reset()
	// Worst-case deflate expansion at level 1 stays well below 2x.
	c.buf.Grow(2 * len(src))
	c.zw.Reset(&c.buf)

	if _, err := c.zw.Write(src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	if err := c.zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return c.buf.Bytes(), nil
}
