package rsaenc

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	pgparmor "github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/require"
)

func pkixPEM(t *testing.T, pub any) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func TestParsePEM(t *testing.T) {
	priv := testKey()

	t.Run("pkix", func(t *testing.T) {
		key, format, err := ParsePEM(pkixPEM(t, &priv.PublicKey))
		require.NoError(t, err)
		require.Equal(t, FormatPKIX, format)
		require.Equal(t, 0, key.Modulus().Cmp(priv.N))
		require.Equal(t, int64(priv.E), key.Exponent().Int64())
	})

	t.Run("pkcs1", func(t *testing.T) {
		data := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&priv.PublicKey)})
		key, format, err := ParsePEM(data)
		require.NoError(t, err)
		require.Equal(t, FormatPKCS1, format)
		require.Equal(t, 0, key.Modulus().Cmp(priv.N))
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		data := append([]byte("\n\n  "), pkixPEM(t, &priv.PublicKey)...)
		_, _, err := ParsePEM(data)
		require.NoError(t, err)
	})
}

func TestParsePEM_Errors(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not pem", []byte("hello world")},
		{"wrong block type", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2, 3}})},
		{"private key block", pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(testKey())})},
		{"garbage pkix", pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte{0x30, 0x01}})},
		{"garbage pkcs1", pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: []byte{0x30, 0x01}})},
		{"ecdsa key", pkixPEM(t, &ecKey.PublicKey)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, _, err := ParsePEM(tt.data)
			require.ErrorIs(t, err, ErrKeyParse)
			require.Nil(t, key)
		})
	}
}

func TestParsePEM_RejectsInvalidKeyMaterial(t *testing.T) {
	// Decodes cleanly but cannot be an RSA modulus.
	even := &rsa.PublicKey{N: new(big.Int).Lsh(big.NewInt(1), 1023), E: 65537}

	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(even)})
	key, format, err := ParsePEM(pkcs1)
	require.ErrorIs(t, err, ErrKeyParse)
	require.ErrorIs(t, err, ErrInvalidKey)
	require.Equal(t, FormatPKCS1, format)
	require.Nil(t, key)

	key, format, err = ParsePEM(pkixPEM(t, even))
	require.ErrorIs(t, err, ErrKeyParse)
	require.ErrorIs(t, err, ErrInvalidKey)
	require.Equal(t, FormatPKIX, format)
	require.Nil(t, key)
}

func armoredEntity(t *testing.T) (*openpgp.Entity, []byte) {
	t.Helper()
	entity, err := openpgp.NewEntity("Test", "", "test@example.com", &packet.Config{
		Algorithm: packet.PubKeyAlgoRSA,
		RSABits:   2048,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := pgparmor.Encode(&buf, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())
	return entity, buf.Bytes()
}

func TestParseOpenPGP(t *testing.T) {
	entity, data := armoredEntity(t)

	key, format, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, FormatOpenPGP, format)

	require.NotEmpty(t, entity.Subkeys)
	want := entity.Subkeys[0].PublicKey.PublicKey.(*rsa.PublicKey)
	require.Equal(t, 0, key.Modulus().Cmp(want.N))

	_, err = ParseOpenPGP(bytes.NewReader([]byte("-----BEGIN PGP PUBLIC KEY BLOCK-----\n\nAAAA\n-----END PGP PUBLIC KEY BLOCK-----\n")))
	require.ErrorIs(t, err, ErrKeyParse)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	priv := testKey()

	path := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(path, pkixPEM(t, &priv.PublicKey), 0o600))

	key, format, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, FormatPKIX, format)
	require.Equal(t, "pkix", format.String())
	require.Equal(t, 0, key.Modulus().Cmp(priv.N))

	_, _, err = LoadFile(filepath.Join(dir, "missing.pem"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestKeyFormat_String(t *testing.T) {
	require.Equal(t, "pkcs1", FormatPKCS1.String())
	require.Equal(t, "openpgp", FormatOpenPGP.String())
	require.Equal(t, "unknown", FormatUnknown.String())
}

func TestParseScheme(t *testing.T) {
	for name, want := range map[string]Scheme{
		"pkcs1":          SchemePKCS1v15,
		"pkcs1v15":       SchemePKCS1v15,
		"PKCS1-v1_5":     SchemePKCS1v15,
		"oaep":           SchemeOAEP,
		"OAEP-SHA1-MGF1": SchemeOAEP,
	} {
		got, err := ParseScheme(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got)

		p, err := NewPadding(got, rand.Reader)
		require.NoError(t, err)
		require.Equal(t, want, p.Scheme())
	}

	_, err := ParseScheme("raw")
	require.Error(t, err)
	_, err = NewPadding("raw", rand.Reader)
	require.Error(t, err)
}
