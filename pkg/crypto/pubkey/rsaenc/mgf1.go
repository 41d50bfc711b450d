package rsaenc

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"hash"
)

// hashLen is the SHA-1 output size used by MGF1 and OAEP.
const hashLen = sha1.Size

// maxMaskBlocks is the size of MGF1's 32-bit counter space.
const maxMaskBlocks = 1 << 32

// MGF1 expands seed into a length-octet mask using SHA-1 (RFC 2437 §10.2.1).
// It is deterministic.
func MGF1(seed []byte, length int) ([]byte, error) {
	return mgf1(sha1.New(), seed, length, maxMaskBlocks)
}

func mgf1(h hash.Hash, seed []byte, length int, maxBlocks uint64) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("rsaenc: negative mask length %d", length)
	}
	hLen := uint64(h.Size())
	if uint64(length) > maxBlocks*hLen {
		return nil, ErrMaskTooLong
	}

	out := make([]byte, 0, length+h.Size())
	var counter [4]byte
	for c := uint32(0); len(out) < length; c++ {
		binary.BigEndian.PutUint32(counter[:], c)
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		out = h.Sum(out)
	}
	return out[:length], nil
}

// mgf1XOR xors MGF1(seed, len(out)) into out.
func mgf1XOR(out, seed []byte) error {
	mask, err := MGF1(seed, len(out))
	if err != nil {
		return err
	}
	for i := range out {
		out[i] ^= mask[i]
	}
	wipe(mask)
	return nil
}
