package rsaenc

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// KeyFormat records which container the key material came from.
type KeyFormat int

const (
	FormatUnknown KeyFormat = iota
	// FormatPKCS1 is a bare RSAPublicKey ("RSA PUBLIC KEY").
	FormatPKCS1
	// FormatPKIX is a SubjectPublicKeyInfo ("PUBLIC KEY").
	FormatPKIX
	// FormatOpenPGP is an armored OpenPGP public key block.
	FormatOpenPGP
)

func (f KeyFormat) String() string {
	switch f {
	case FormatPKCS1:
		return "pkcs1"
	case FormatPKIX:
		return "pkix"
	case FormatOpenPGP:
		return "openpgp"
	default:
		return "unknown"
	}
}

const openPGPArmorHeader = "-----BEGIN PGP PUBLIC KEY BLOCK-----"

// fromParsed converts a decoded key. Keys that decode but fail validation,
// such as an even modulus, are parse failures too.
func fromParsed(pub *rsa.PublicKey) (*PublicKey, error) {
	key, err := FromStdlib(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyParse, err)
	}
	return key, nil
}

// ParsePEM decodes the first PEM block of data as an RSA public key. The
// block must be of type "PUBLIC KEY" or "RSA PUBLIC KEY".
func ParsePEM(data []byte) (*PublicKey, KeyFormat, error) {
	block, _ := pem.Decode(bytes.TrimSpace(data))
	if block == nil {
		return nil, FormatUnknown, fmt.Errorf("%w: failed to decode PEM block", ErrKeyParse)
	}

	switch block.Type {
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, FormatPKIX, fmt.Errorf("%w: PKIX: %w", ErrKeyParse, err)
		}
		rsaKey, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, FormatPKIX, fmt.Errorf("%w: key is not an RSA public key, got %T", ErrKeyParse, pub)
		}
		key, err := fromParsed(rsaKey)
		return key, FormatPKIX, err
	case "RSA PUBLIC KEY":
		rsaKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, FormatPKCS1, fmt.Errorf("%w: PKCS1: %w", ErrKeyParse, err)
		}
		key, err := fromParsed(rsaKey)
		return key, FormatPKCS1, err
	default:
		return nil, FormatUnknown, fmt.Errorf("%w: unsupported PEM block type: %s (expected PUBLIC KEY or RSA PUBLIC KEY)", ErrKeyParse, block.Type)
	}
}

// ParseOpenPGP reads an armored OpenPGP key ring and returns its first RSA
// key. Encryption subkeys are preferred over primary keys.
func ParseOpenPGP(r io.Reader) (*PublicKey, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, fmt.Errorf("%w: OpenPGP: %w", ErrKeyParse, err)
	}

	for _, e := range entities {
		for _, sub := range e.Subkeys {
			if sub.PublicKey == nil {
				continue
			}
			if rsaKey, ok := sub.PublicKey.PublicKey.(*rsa.PublicKey); ok {
				return fromParsed(rsaKey)
			}
		}
		if e.PrimaryKey == nil {
			continue
		}
		if rsaKey, ok := e.PrimaryKey.PublicKey.(*rsa.PublicKey); ok {
			return fromParsed(rsaKey)
		}
	}
	return nil, fmt.Errorf("%w: OpenPGP key ring holds no RSA key", ErrKeyParse)
}

// Parse sniffs data and dispatches to ParseOpenPGP or ParsePEM.
func Parse(data []byte) (*PublicKey, KeyFormat, error) {
	if bytes.Contains(data, []byte(openPGPArmorHeader)) {
		key, err := ParseOpenPGP(bytes.NewReader(data))
		return key, FormatOpenPGP, err
	}
	return ParsePEM(data)
}

// LoadFile reads and parses a public key file in any supported format.
func LoadFile(path string) (*PublicKey, KeyFormat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to read key file: %w", err)
	}
	return Parse(data)
}
