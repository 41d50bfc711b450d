// Package random provides the byte sources injected into padding schemes.
//
// Reader is the only source fit for production. NewSeeded and NewReplay
// exist so encryption can be reproduced in tests; neither is safe for
// concurrent use.
package random

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/cloudflare/circl/xof"
)

// ErrExhausted is returned by a replay source once every byte has been read.
var ErrExhausted = errors.New("random: replay source exhausted")

// Reader returns the system CSPRNG.
func Reader() io.Reader { return rand.Reader }

// NewSeeded returns a deterministic stream expanded from seed with SHAKE256.
// The same seed always yields the same stream.
func NewSeeded(seed []byte) io.Reader {
	x := xof.SHAKE256.New()
	_, _ = x.Write([]byte("rsacrypt seeded source v1"))
	_, _ = x.Write(seed)
	return x
}

type replay struct {
	buf []byte
}

// NewReplay returns a source that yields exactly the bytes of b, in order,
// then fails with ErrExhausted.
func NewReplay(b []byte) io.Reader {
	return &replay{buf: append([]byte(nil), b...)}
}

func (r *replay) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.buf) == 0 {
		return 0, ErrExhausted
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
