package proto

import (
	"errors"
	"io"
)

// ErrVarIntTooBig is returned when decoding a VarInt that
// exceeds the maximum permitted byte length.
var ErrVarIntTooBig = errors.New("proto: VarInt is too big")

// MaxVarIntLen is the maximum number of bytes a 32-bit VarInt can occupy.
const MaxVarIntLen = 5

// WriteVarInt writes v to w using the protocol's 7-bits-per-byte varint encoding.
func WriteVarInt(w io.Writer, v int32) error {
	uv := uint32(v)
	var buf [MaxVarIntLen]byte
	n := 0
	for {
		b := byte(uv & 0x7F)
		uv >>= 7
		if uv != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if uv == 0 {
			break
		}
	}
	_, err := w.Write(buf[:n])
	return err
}

// ReadVarInt reads a VarInt from r.
func ReadVarInt(r io.ByteReader) (int32, error) {
	var result uint32
	var numRead uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > MaxVarIntLen {
			return 0, ErrVarIntTooBig
		}
		if b&0x80 == 0 {
			break
		}
	}
	return int32(result), nil
}

// VarIntLen returns the number of bytes v would occupy when encoded.
func VarIntLen(v int32) int {
	uv := uint32(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}
