package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecs_RoundTrip(t *testing.T) {
	msgs := [][]byte{
		[]byte("a"),
		[]byte("Cozy lummox gives smart squid who asks for job pen."),
		bytes.Repeat([]byte("rsa "), 64),
	}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := Get(name)
			require.NoError(t, err)
			require.Equal(t, name, c.Name())
			for _, msg := range msgs {
				packed, err := c.Compress(msg)
				require.NoError(t, err)
				got, err := c.Decompress(packed)
				require.NoError(t, err)
				require.Equal(t, msg, got)
			}
		})
	}
}

func TestGet(t *testing.T) {
	c, err := Get("")
	require.NoError(t, err)
	require.Equal(t, None, c.Name())

	_, err = Get("lzma")
	require.Error(t, err)
}

func TestSmallest(t *testing.T) {
	repetitive := bytes.Repeat([]byte("rsa "), 64)
	name, out, err := Smallest(repetitive)
	require.NoError(t, err)
	require.NotEqual(t, None, name)
	require.Less(t, len(out), len(repetitive))

	c, err := Get(name)
	require.NoError(t, err)
	got, err := c.Decompress(out)
	require.NoError(t, err)
	require.Equal(t, repetitive, got)

	// Every codec adds framing to a single octet.
	name, out, err = Smallest([]byte{0x42})
	require.NoError(t, err)
	require.Equal(t, None, name)
	require.Equal(t, []byte{0x42}, out)
}

func TestDecompress_Garbage(t *testing.T) {
	for _, name := range []string{Zlib, Bzip2} {
		c, err := Get(name)
		require.NoError(t, err)
		_, err = c.Decompress([]byte("not compressed"))
		require.Error(t, err, name)
	}
}
