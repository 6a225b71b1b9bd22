package main

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// pathEncoder renders archive names into the fixed record path field.
// Clients look names up byte for byte, so names may have to be stored in
// the code page the client was built for instead of UTF-8.
type pathEncoder struct {
	enc encoding.Encoding
}

func newPathEncoder(charset string) (*pathEncoder, error) {
	if charset == "" {
		return &pathEncoder{}, nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown path encoding %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported path encoding %q", charset)
	}

	return &pathEncoder{enc: enc}, nil
}

// encode writes name as "\a\b\c" into a zeroed field, keeping at most
// maxPathChars bytes of the name so the terminator always fits.
// truncated reports whether bytes were dropped.
func (p *pathEncoder) encode(name string) (field [pathFieldSize]byte, truncated bool, err error) {
	raw := []byte(name)
	if p.enc != nil {
		raw, err = p.enc.NewEncoder().Bytes(raw)
		if err != nil {
			return field, false, fmt.Errorf("encoding path %q: %w", name, err)
		}
	}

	if len(raw) > maxPathChars {
		raw = raw[:maxPathChars]
		truncated = true
	}

	field[0] = '\\'
	for i, b := range raw {
		if b == '/' {
			b = '\\'
		}
		field[i+1] = b
	}

	return field, truncated, nil
}
