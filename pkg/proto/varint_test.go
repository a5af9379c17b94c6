package proto

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, 127, 128, 255, 300, 2097151, 2147483647, -1, -2147483648}
	for _, v := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		assert.Equal(t, VarIntLen(v), buf.Len(), "VarIntLen mismatch for %d", v)

		got, err := ReadVarInt(bufio.NewReader(&buf))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestReadVarIntTooBig(t *testing.T) {
	// six bytes, each with the continuation bit set, never terminates within
	// MaxVarIntLen.
	raw := bytes.Repeat([]byte{0xFF}, 6)
	_, err := ReadVarInt(bufio.NewReader(bytes.NewReader(raw)))
	assert.ErrorIs(t, err, ErrVarIntTooBig)
}

func TestVarIntKnownEncodings(t *testing.T) {
	// Values pinned to the protocol's documented VarInt examples.
	cases := map[int32][]byte{
		0:   {0x00},
		1:   {0x01},
		127: {0x7f},
		128: {0x80, 0x01},
		255: {0xff, 0x01},
		25565: {0xdd, 0xc7, 0x01},
		-1: {0xff, 0xff, 0xff, 0xff, 0x0f},
	}
	for v, want := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		assert.Equal(t, want, buf.Bytes(), "encoding of %d", v)
	}
}
