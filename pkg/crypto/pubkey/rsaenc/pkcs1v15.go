package rsaenc

import "io"

// pkcs1v15Overhead is 0x00 0x02, the 0x00 separator and eight octets of
// minimum padding.
const pkcs1v15Overhead = 11

// PKCS1v15 is EME-PKCS1-v1_5 encryption padding (RFC 2313 block type 2).
type PKCS1v15 struct {
	random io.Reader
}

// NewPKCS1v15 returns a padding that draws its padding string from random.
func NewPKCS1v15(random io.Reader) *PKCS1v15 {
	return &PKCS1v15{random: random}
}

func (*PKCS1v15) Scheme() Scheme { return SchemePKCS1v15 }

// Pad returns 0x00 || 0x02 || PS || 0x00 || msg, k octets long. PS holds
// k-3-len(msg) non-zero random octets.
func (p *PKCS1v15) Pad(msg []byte, k int) ([]byte, error) {
	if len(msg) > k-pkcs1v15Overhead {
		return nil, ErrMessageTooLong
	}

	em := make([]byte, k)
	em[1] = 0x02
	ps := em[2 : k-len(msg)-1]
	if err := fillNonZero(p.random, ps); err != nil {
		wipe(em)
		return nil, err
	}
	// em[k-len(msg)-1] stays 0x00 as the separator.
	copy(em[k-len(msg):], msg)
	return em, nil
}

// fillNonZero reads buf one octet at a time, redrawing zero octets.
func fillNonZero(random io.Reader, buf []byte) error {
	for i := range buf {
		for buf[i] == 0 {
			if err := readRandom(random, buf[i:i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}
