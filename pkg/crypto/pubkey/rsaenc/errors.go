package rsaenc

import "errors"

var (
	// ErrMessageTooLong is returned when a message does not fit the padding
	// scheme for the key's octet length.
	ErrMessageTooLong = errors.New("rsaenc: message too long for RSA key size")

	// ErrMaskTooLong is returned when MGF1 is asked for more than 2^32 * hLen
	// octets.
	ErrMaskTooLong = errors.New("rsaenc: mask too long")

	// ErrKeyParse wraps every failure to decode key material.
	ErrKeyParse = errors.New("rsaenc: cannot parse public key")

	// ErrInvalidKey is returned for a modulus that is even or not greater
	// than one, or an exponent that is not positive.
	ErrInvalidKey = errors.New("rsaenc: invalid public key")

	// ErrRandomSource wraps read failures of the injected random source.
	ErrRandomSource = errors.New("rsaenc: random source failed")
)
