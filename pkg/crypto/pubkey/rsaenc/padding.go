package rsaenc

import (
	"fmt"
	"io"

	"example.com/rsacrypt/pkg/util/securemem"
)

// Scheme names a padding variant.
type Scheme string

const (
	SchemePKCS1v15 Scheme = "PKCS1-v1_5"
	SchemeOAEP     Scheme = "OAEP-SHA1-MGF1"
)

// Padding encodes a message into a block of exactly k octets, where k is
// the modulus length in octets. PKCS1v15 and OAEP are the implementations.
type Padding interface {
	Pad(msg []byte, k int) ([]byte, error)
	Scheme() Scheme
}

// ParseScheme maps the short names used on the command line and in
// container headers to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "pkcs1", "pkcs1v15", string(SchemePKCS1v15):
		return SchemePKCS1v15, nil
	case "oaep", string(SchemeOAEP):
		return SchemeOAEP, nil
	default:
		return "", fmt.Errorf("rsaenc: unknown padding scheme %q", name)
	}
}

// NewPadding builds the padding for s around random.
func NewPadding(s Scheme, random io.Reader) (Padding, error) {
	switch s {
	case SchemePKCS1v15:
		return NewPKCS1v15(random), nil
	case SchemeOAEP:
		return NewOAEP(random), nil
	default:
		return nil, fmt.Errorf("rsaenc: unknown padding scheme %q", s)
	}
}

// readRandom fills b from r, wrapping failures in ErrRandomSource.
func readRandom(r io.Reader, b []byte) error {
	if r == nil {
		return fmt.Errorf("%w: no random source", ErrRandomSource)
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return fmt.Errorf("%w: %w", ErrRandomSource, err)
	}
	return nil
}

var wipe = securemem.Wipe
