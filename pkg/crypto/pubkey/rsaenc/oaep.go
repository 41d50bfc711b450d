package rsaenc

import (
	"crypto/sha1"
	"io"
)

// emptyParamHash is SHA-1 of the empty encoding parameter string.
var emptyParamHash = sha1.Sum(nil)

// OAEP is EME-OAEP encryption padding (RFC 2437 §9.1.1) with SHA-1, MGF1
// and an empty encoding parameter string.
type OAEP struct {
	random io.Reader
}

// NewOAEP returns a padding that draws its seed from random.
func NewOAEP(random io.Reader) *OAEP {
	return &OAEP{random: random}
}

func (*OAEP) Scheme() Scheme { return SchemeOAEP }

// Pad returns 0x00 || maskedSeed || maskedDB, k octets long, where
// DB = pHash || PS || 0x01 || msg. The leading zero octet is the I2OSP
// padding of the RFC 2437 k-1 octet encoding.
func (p *OAEP) Pad(msg []byte, k int) ([]byte, error) {
	if len(msg) > k-2*hashLen-2 {
		return nil, ErrMessageTooLong
	}

	em := make([]byte, k)
	seed := em[1 : 1+hashLen]
	db := em[1+hashLen:]

	copy(db, emptyParamHash[:])
	// PS is the run of zeros between pHash and the 0x01 marker.
	db[len(db)-len(msg)-1] = 0x01
	copy(db[len(db)-len(msg):], msg)

	if err := readRandom(p.random, seed); err != nil {
		wipe(em)
		return nil, err
	}

	// maskedDB depends on seed; maskedSeed depends on maskedDB.
	if err := mgf1XOR(db, seed); err != nil {
		wipe(em)
		return nil, err
	}
	if err := mgf1XOR(seed, db); err != nil {
		wipe(em)
		return nil, err
	}
	return em, nil
}
