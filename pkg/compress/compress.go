// Package compress shrinks messages before they are padded into a single
// RSA block. Codec names are recorded in the container header.
package compress

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"fmt"
	"io"

	dbz2 "github.com/dsnet/compress/bzip2"
)

const (
	None  = "none"
	Zip   = "zip"
	Zlib  = "zlib"
	Bzip2 = "bzip2"
)

// Codec compresses and decompresses whole messages.
type Codec interface {
	Name() string
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

// Names lists the supported codec names.
func Names() []string { return []string{None, Zip, Zlib, Bzip2} }

// Get returns the codec registered under name. The empty name means None.
func Get(name string) (Codec, error) {
	switch name {
	case None, "":
		return noop{}, nil
	case Zip:
		return deflateCodec{}, nil
	case Zlib:
		return zlibCodec{}, nil
	case Bzip2:
		return bzip2Codec{}, nil
	default:
		return nil, fmt.Errorf("compress: unknown codec %q", name)
	}
}

// Smallest compresses msg with every codec and returns the name and output
// of the shortest result. None wins ties.
func Smallest(msg []byte) (string, []byte, error) {
	bestName, best := None, msg
	for _, name := range Names()[1:] {
		c, _ := Get(name)
		out, err := c.Compress(msg)
		if err != nil {
			return "", nil, fmt.Errorf("compress: %s: %w", name, err)
		}
		if len(out) < len(best) {
			bestName, best = name, out
		}
	}
	return bestName, best, nil
}

type noop struct{}

func (noop) Name() string                        { return None }
func (noop) Compress(b []byte) ([]byte, error)   { return b, nil }
func (noop) Decompress(b []byte) ([]byte, error) { return b, nil }

type deflateCodec struct{}

func (deflateCodec) Name() string { return Zip }

func (deflateCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decompress(b []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	return io.ReadAll(r)
}

type zlibCodec struct{}

func (zlibCodec) Name() string { return Zlib }

func (zlibCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) Decompress(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type bzip2Codec struct{}

func (bzip2Codec) Name() string { return Bzip2 }

func (bzip2Codec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := dbz2.NewWriter(&buf, &dbz2.WriterConfig{Level: dbz2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (bzip2Codec) Decompress(b []byte) ([]byte, error) {
	r, err := dbz2.NewReader(bytes.NewReader(b), &dbz2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
