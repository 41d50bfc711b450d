// Package rsaenc implements RSA public-key block encryption with PKCS #1
// message padding: EME-PKCS1-v1_5 (block type 2) and EME-OAEP with SHA-1,
// MGF1 and an empty encoding parameter string.
//
// A PublicKey is immutable and may be shared between goroutines. Padding
// values own the random source they were built with and are only as
// concurrency-safe as that source:
//
//	key, _, err := rsaenc.ParsePEM(pemBytes)
//	...
//	ct, err := key.EncryptBlock(msg, rsaenc.NewOAEP(rand.Reader))
//
// Only the forward direction exists: there is no decryption, unpadding or
// signature support.
package rsaenc
