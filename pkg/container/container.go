// Package container frames an RSA ciphertext block with a JSON header that
// names the padding scheme, the recipient key and the compression codec.
//
// Layout: magic "RSC1" || uint32 BE header length || header JSON || ciphertext.
package container

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	magic   = "RSC1"
	Version = 1

	maxHeaderLen = 1 << 16
)

var (
	ErrBadMagic  = errors.New("container: bad magic")
	ErrMalformed = errors.New("container: malformed")
)

// Header describes how the ciphertext was produced.
type Header struct {
	Version     int       `json:"v"`
	Created     time.Time `json:"t"`
	Scheme      string    `json:"scheme"` // PKCS1-v1_5|OAEP-SHA1-MGF1
	KeyID       string    `json:"key_id,omitempty"`
	Fingerprint string    `json:"fpr"` // hex SHA-256 of the PKIX key
	ModulusBits int       `json:"bits"`
	Compression string    `json:"c"`
}

// BlockLen is the ciphertext length implied by ModulusBits.
func (h *Header) BlockLen() int { return (h.ModulusBits + 7) / 8 }

func (h *Header) validate(ct []byte) error {
	if h.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformed, h.Version)
	}
	if h.Scheme == "" {
		return fmt.Errorf("%w: missing scheme", ErrMalformed)
	}
	if h.ModulusBits <= 0 {
		return fmt.Errorf("%w: modulus bits %d", ErrMalformed, h.ModulusBits)
	}
	if len(ct) != h.BlockLen() {
		return fmt.Errorf("%w: ciphertext is %d octets, want %d", ErrMalformed, len(ct), h.BlockLen())
	}
	return nil
}

func Write(w io.Writer, h *Header, ciphertext []byte) error {
	if err := h.validate(ciphertext); err != nil {
		return err
	}
	hb, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, magic); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(hb)))
	if _, err = w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err = w.Write(hb); err != nil {
		return err
	}
	_, err = w.Write(ciphertext)
	return err
}

func Read(r io.Reader) (*Header, []byte, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if string(m[:]) != magic {
		return nil, nil, ErrBadMagic
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxHeaderLen {
		return nil, nil, fmt.Errorf("%w: header length %d", ErrMalformed, n)
	}
	hb := make([]byte, n)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	var h Header
	if err := json.Unmarshal(hb, &h); err != nil {
		return nil, nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	ct, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if err := h.validate(ct); err != nil {
		return nil, nil, err
	}
	return &h, ct, nil
}

// Marshal is Write into a fresh buffer.
func Marshal(h *Header, ciphertext []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, h, ciphertext); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is Read from b.
func Unmarshal(b []byte) (*Header, []byte, error) {
	return Read(bytes.NewReader(b))
}
