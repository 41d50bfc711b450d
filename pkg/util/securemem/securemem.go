package securemem

import (
	"github.com/awnumar/memguard"
)

// Secret wraps a memguard locked buffer.
type Secret struct {
	buf *memguard.LockedBuffer
}

// New moves b into locked memory. The source slice is wiped.
func New(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

func (s *Secret) Bytes() []byte { return s.buf.Bytes() }
func (s *Secret) Size() int     { return s.buf.Size() }
func (s *Secret) Destroy()      { s.buf.Destroy() }

// Wipe zeroes b in place. Used for padding intermediates that never leave
// the process, where locking pages would be overkill.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
