// Package hash resolves the digest names accepted on the command line and
// computes hex key fingerprints with them.
package hash

import (
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("unsupported hash")

var byName = map[string]crypto.Hash{
	"sha1":   crypto.SHA1,
	"sha256": crypto.SHA256,
	"sha384": crypto.SHA384,
	"sha512": crypto.SHA512,
}

// Names lists the accepted digest names, shortest digest first.
func Names() []string { return []string{"sha1", "sha256", "sha384", "sha512"} }

func Lookup(name string) (crypto.Hash, error) {
	h, ok := byName[name]
	if !ok || !h.Available() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return h, nil
}

// Digest hashes data with the named algorithm.
func Digest(name string, data []byte) ([]byte, crypto.Hash, error) {
	h, err := Lookup(name)
	if err != nil {
		return nil, 0, err
	}
	d := h.New()
	d.Write(data)
	return d.Sum(nil), h, nil
}

// Fingerprint is the lower-case hex Digest of data.
func Fingerprint(name string, data []byte) (string, error) {
	sum, _, err := Digest(name, data)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
