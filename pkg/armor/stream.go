package armor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sort"
)

const crc24Init = 0xB704CE

// Writer streams ASCII armor output with a trailing CRC-24 line.
type Writer struct {
	blockType string
	w         io.Writer
	enc       io.WriteCloser
	breaker   *lineBreaker
	crc       uint32
	closed    bool
}

// NewWriter writes the BEGIN line and headers, and returns a Writer for the
// body. Close must be called to emit the checksum and END line.
func NewWriter(w io.Writer, blockType string, headers map[string]string) (*Writer, error) {
	if blockType == "" {
		return nil, errors.New("armor: block type required")
	}
	aw := &Writer{
		blockType: blockType,
		w:         w,
		crc:       crc24Init,
	}

	if _, err := fmt.Fprintf(w, "-----BEGIN %s-----\n", blockType); err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s: %s\n", k, headers[k]); err != nil {
				return nil, err
			}
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return nil, err
	}

	aw.breaker = &lineBreaker{w: w}
	aw.enc = base64.NewEncoder(base64.StdEncoding, aw.breaker)
	return aw, nil
}

func (aw *Writer) Write(p []byte) (int, error) {
	if aw.closed {
		return 0, errors.New("armor: write on closed writer")
	}
	for _, b := range p {
		aw.crc = crc24UpdateByte(aw.crc, b)
	}
	return aw.enc.Write(p)
}

// Close flushes base64 output and writes the footer.
func (aw *Writer) Close() error {
	if aw.closed {
		return nil
	}
	aw.closed = true
	if err := aw.enc.Close(); err != nil {
		return err
	}
	if err := aw.breaker.Close(); err != nil {
		return err
	}

	crc := aw.crc & 0xFFFFFF
	crcBytes := []byte{byte(crc >> 16), byte(crc >> 8), byte(crc)}
	if _, err := fmt.Fprintf(aw.w, "=%s\n", base64.StdEncoding.EncodeToString(crcBytes)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(aw.w, "-----END %s-----\n", aw.blockType)
	return err
}

type lineBreaker struct {
	w   io.Writer
	col int
}

func (lb *lineBreaker) Write(p []byte) (int, error) {
	for i, b := range p {
		if lb.col == 64 {
			if _, err := lb.w.Write([]byte{'\n'}); err != nil {
				return i, err
			}
			lb.col = 0
		}
		if _, err := lb.w.Write([]byte{b}); err != nil {
			return i, err
		}
		lb.col++
	}
	return len(p), nil
}

func (lb *lineBreaker) Close() error {
	if lb.col > 0 {
		if _, err := lb.w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

func crc24UpdateByte(crc uint32, b byte) uint32 {
	crc ^= uint32(b) << 16
	for i := 0; i < 8; i++ {
		crc <<= 1
		if (crc & 0x1000000) != 0 {
			crc ^= 0x1864CF
		}
	}
	return crc & 0xFFFFFF
}
