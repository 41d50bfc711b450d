package rsaenc

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"math"
	"math/big"

	"github.com/cronokirby/safenum"

	"example.com/rsacrypt/pkg/crypto/hash"
)

// PublicKey is an RSA public key. It is immutable after NewPublicKey.
type PublicKey struct {
	n, e *big.Int

	mod *safenum.Modulus
	exp *safenum.Nat
}

// NewPublicKey copies n and e into a PublicKey. The modulus must be odd and
// greater than one, the exponent positive.
func NewPublicKey(n, e *big.Int) (*PublicKey, error) {
	if n == nil || e == nil {
		return nil, fmt.Errorf("%w: nil modulus or exponent", ErrInvalidKey)
	}
	// safenum's even-modulus exponentiation returns wrong results (5^3 mod
	// 34 comes out as 0), and an RSA modulus is always odd.
	if n.Cmp(big.NewInt(1)) <= 0 || n.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and greater than 1", ErrInvalidKey)
	}
	if e.Sign() <= 0 {
		return nil, fmt.Errorf("%w: exponent must be positive", ErrInvalidKey)
	}

	return &PublicKey{
		n:   new(big.Int).Set(n),
		e:   new(big.Int).Set(e),
		mod: safenum.ModulusFromBytes(n.Bytes()),
		exp: new(safenum.Nat).SetBytes(e.Bytes()),
	}, nil
}

// FromStdlib converts a crypto/rsa public key.
func FromStdlib(pub *rsa.PublicKey) (*PublicKey, error) {
	if pub == nil || pub.N == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	return NewPublicKey(pub.N, big.NewInt(int64(pub.E)))
}

// NumOctets is the length k of every encoded block and ciphertext for this
// key: the modulus bit length rounded up to whole octets.
func (k *PublicKey) NumOctets() int {
	return (k.n.BitLen() + 7) / 8
}

// BitLen is the bit length of the modulus.
func (k *PublicKey) BitLen() int { return k.n.BitLen() }

func (k *PublicKey) Modulus() *big.Int  { return new(big.Int).Set(k.n) }
func (k *PublicKey) Exponent() *big.Int { return new(big.Int).Set(k.e) }

// Equal reports whether both keys have the same modulus and exponent.
func (k *PublicKey) Equal(o *PublicKey) bool {
	if o == nil {
		return false
	}
	return k.n.Cmp(o.n) == 0 && k.e.Cmp(o.e) == 0
}

// EncryptBlock pads msg to NumOctets() octets with p and returns
// m^e mod n as a big-endian string of exactly NumOctets() octets.
func (k *PublicKey) EncryptBlock(msg []byte, p Padding) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("rsaenc: nil padding")
	}
	size := k.NumOctets()
	em, err := p.Pad(msg, size)
	if err != nil {
		return nil, err
	}
	defer wipe(em)

	m := new(safenum.Nat).SetBytes(em)
	c := new(safenum.Nat).Exp(m, k.exp, k.mod)

	// FillBytes left-pads with zeros, so results below 256^(size-1) keep
	// their full width.
	return c.FillBytes(make([]byte, size)), nil
}

// Fingerprint is the hex digest of the key's PKIX DER encoding. PKIX
// encoding limits the public exponent to 2^31-1; larger exponents, which
// NewPublicKey accepts but x509 and OpenPGP ingestion never produce, yield
// an error.
func (k *PublicKey) Fingerprint(hashName string) (string, error) {
	if !k.e.IsInt64() || k.e.Int64() > math.MaxInt32 {
		return "", fmt.Errorf("rsaenc: exponent too large to encode")
	}
	der, err := x509.MarshalPKIXPublicKey(&rsa.PublicKey{N: k.n, E: int(k.e.Int64())})
	if err != nil {
		return "", fmt.Errorf("rsaenc: encoding public key: %w", err)
	}
	return hash.Fingerprint(hashName, der)
}

// MaxMessageLen is the longest message s can pad for this key, or 0 if the
// key is too short for the scheme.
func (k *PublicKey) MaxMessageLen(s Scheme) int {
	size := k.NumOctets()
	var n int
	switch s {
	case SchemePKCS1v15:
		n = size - pkcs1v15Overhead
	case SchemeOAEP:
		n = size - 2*hashLen - 2
	}
	return max(n, 0)
}
