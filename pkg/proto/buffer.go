package proto

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"math"

	"github.com/google/uuid"
)

// Buffer is a cursor over a packet payload, providing the strictly
// positional typed-field reads and writes §4.1 requires. Decoding never
// infers a type from the payload; the caller always names the field type
// it expects next.
type Buffer struct {
	buf *bytes.Buffer
}

// NewBuffer wraps an existing payload for reading.
func NewBuffer(payload []byte) *Buffer {
	return &Buffer{buf: bytes.NewBuffer(payload)}
}

// NewWriteBuffer returns an empty Buffer for building a payload.
func NewWriteBuffer() *Buffer {
	return &Buffer{buf: new(bytes.Buffer)}
}

// Bytes returns the buffer's current contents.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

// Len returns the number of unread bytes.
func (b *Buffer) Len() int { return b.buf.Len() }

func (b *Buffer) readFull(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(b.buf, out); err != nil {
		return nil, malformed("short read", err)
	}
	return out, nil
}

// VarInt

func (b *Buffer) ReadVarInt() (int32, error) {
	v, err := ReadVarInt(b.buf)
	if err != nil {
		return 0, malformed("varint", err)
	}
	return v, nil
}

func (b *Buffer) WriteVarInt(v int32) error { return WriteVarInt(b.buf, v) }

// Fixed-width integers, big-endian per §3.

func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.buf.ReadByte()
	if err != nil {
		return false, malformed("bool", err)
	}
	return v != 0, nil
}

func (b *Buffer) WriteBool(v bool) error {
	if v {
		return b.buf.WriteByte(1)
	}
	return b.buf.WriteByte(0)
}

func (b *Buffer) ReadByte_() (int8, error) {
	v, err := b.buf.ReadByte()
	if err != nil {
		return 0, malformed("byte", err)
	}
	return int8(v), nil
}

func (b *Buffer) WriteByte_(v int8) error { return b.buf.WriteByte(byte(v)) }

func (b *Buffer) ReadUByte() (uint8, error) {
	v, err := b.buf.ReadByte()
	if err != nil {
		return 0, malformed("ubyte", err)
	}
	return v, nil
}

func (b *Buffer) WriteUByte(v uint8) error { return b.buf.WriteByte(v) }

func (b *Buffer) ReadShort() (int16, error) {
	raw, err := b.readFull(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(raw)), nil
}

func (b *Buffer) WriteShort(v int16) error {
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], uint16(v))
	_, err := b.buf.Write(raw[:])
	return err
}

func (b *Buffer) ReadUShort() (uint16, error) {
	raw, err := b.readFull(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(raw), nil
}

func (b *Buffer) WriteUShort(v uint16) error {
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], v)
	_, err := b.buf.Write(raw[:])
	return err
}

func (b *Buffer) ReadInt() (int32, error) {
	raw, err := b.readFull(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(raw)), nil
}

func (b *Buffer) WriteInt(v int32) error {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], uint32(v))
	_, err := b.buf.Write(raw[:])
	return err
}

func (b *Buffer) ReadLong() (int64, error) {
	raw, err := b.readFull(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}

func (b *Buffer) WriteLong(v int64) error {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(v))
	_, err := b.buf.Write(raw[:])
	return err
}

func (b *Buffer) ReadFloat() (float32, error) {
	v, err := b.ReadInt()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func (b *Buffer) WriteFloat(v float32) error {
	return b.WriteInt(int32(math.Float32bits(v)))
}

func (b *Buffer) ReadDouble() (float64, error) {
	v, err := b.ReadLong()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (b *Buffer) WriteDouble(v float64) error {
	return b.WriteLong(int64(math.Float64bits(v)))
}

// String / JSON share a wire shape (varint length + UTF-8 bytes); JSON is
// a semantically distinct field type but decodes identically.

func (b *Buffer) ReadString() (string, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return "", err
	}
	if n < 0 || n > 1<<20 {
		return "", malformed("string length out of range", nil)
	}
	raw, err := b.readFull(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (b *Buffer) WriteString(s string) error {
	if err := b.WriteVarInt(int32(len(s))); err != nil {
		return err
	}
	_, err := b.buf.WriteString(s)
	return err
}

func (b *Buffer) ReadJSON() (string, error) { return b.ReadString() }
func (b *Buffer) WriteJSON(s string) error  { return b.WriteString(s) }

// UUID is 16 raw bytes in modern versions; legacy versions that still
// send it as a string go through ReadUUIDString/WriteUUIDString.

func (b *Buffer) ReadUUID() (uuid.UUID, error) {
	raw, err := b.readFull(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var u uuid.UUID
	copy(u[:], raw)
	return u, nil
}

func (b *Buffer) WriteUUID(u uuid.UUID) error {
	_, err := b.buf.Write(u[:])
	return err
}

func (b *Buffer) ReadUUIDString() (uuid.UUID, error) {
	s, err := b.ReadString()
	if err != nil {
		return uuid.UUID{}, err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, malformed("uuid string", err)
	}
	return u, nil
}

func (b *Buffer) WriteUUIDString(u uuid.UUID) error {
	return b.WriteString(u.String())
}

// Byte arrays: varint-length prefixed, or short-length prefixed (legacy).

func (b *Buffer) ReadByteArray() ([]byte, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 1<<22 {
		return nil, malformed("byte array length out of range", nil)
	}
	return b.readFull(int(n))
}

func (b *Buffer) WriteByteArray(data []byte) error {
	if err := b.WriteVarInt(int32(len(data))); err != nil {
		return err
	}
	_, err := b.buf.Write(data)
	return err
}

func (b *Buffer) ReadByteArrayShort() ([]byte, error) {
	n, err := b.ReadShort()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, malformed("byte array length out of range", nil)
	}
	return b.readFull(int(n))
}

func (b *Buffer) WriteByteArrayShort(data []byte) error {
	if err := b.WriteShort(int16(len(data))); err != nil {
		return err
	}
	_, err := b.buf.Write(data)
	return err
}

// Position (packed) straddles a protocol-version threshold: pre-1.14
// packs X(26)/Y(12)/Z(26), which covers every era this module speaks, so
// that single legacy layout below is the only one implemented.

type Position struct {
	X, Y, Z int
}

func (b *Buffer) ReadPosition() (Position, error) {
	v, err := b.ReadLong()
	if err != nil {
		return Position{}, err
	}
	x := int(v >> 38)
	y := int(v << 26 >> 52)
	z := int(v << 38 >> 38)
	if x >= 1<<25 {
		x -= 1 << 26
	}
	if y >= 1<<11 {
		y -= 1 << 12
	}
	if z >= 1<<25 {
		z -= 1 << 26
	}
	return Position{X: x, Y: y, Z: z}, nil
}

func (b *Buffer) WritePosition(p Position) error {
	packed := ((int64(p.X) & 0x3FFFFFF) << 38) |
		((int64(p.Y) & 0xFFF) << 26) |
		(int64(p.Z) & 0x3FFFFFF)
	return b.WriteLong(packed)
}

// Slot: item id + count + damage + optional NBT blob (legacy pre-flattening
// wire shape, matching the versions this module targets).

type Slot struct {
	Present bool
	ItemID  int16
	Count   int8
	Damage  int16
	NBT     []byte // raw NBT blob, nil if absent
}

func (b *Buffer) ReadSlot() (Slot, error) {
	present, err := b.ReadBool()
	if err != nil {
		return Slot{}, err
	}
	if !present {
		return Slot{Present: false}, nil
	}
	itemID, err := b.ReadShort()
	if err != nil {
		return Slot{}, err
	}
	count, err := b.ReadByte_()
	if err != nil {
		return Slot{}, err
	}
	damage, err := b.ReadShort()
	if err != nil {
		return Slot{}, err
	}
	nbtLen, err := b.ReadShort()
	if err != nil {
		return Slot{}, err
	}
	var nbt []byte
	if nbtLen >= 0 {
		nbt, err = b.readFull(int(nbtLen))
		if err != nil {
			return Slot{}, err
		}
	}
	return Slot{Present: true, ItemID: itemID, Count: count, Damage: damage, NBT: nbt}, nil
}

func (b *Buffer) WriteSlot(s Slot) error {
	if !s.Present {
		return b.WriteBool(false)
	}
	if err := b.WriteBool(true); err != nil {
		return err
	}
	if err := b.WriteShort(s.ItemID); err != nil {
		return err
	}
	if err := b.WriteByte_(s.Count); err != nil {
		return err
	}
	if err := b.WriteShort(s.Damage); err != nil {
		return err
	}
	if s.NBT == nil {
		return b.WriteShort(-1)
	}
	if err := b.WriteShort(int16(len(s.NBT))); err != nil {
		return err
	}
	_, err := b.buf.Write(s.NBT)
	return err
}

// ReadSlotNoNBT reads a slot lacking the trailing NBT blob (used by some
// pre-1.8 windows); the data length read is skipped entirely.
func (b *Buffer) ReadSlotNoNBT() (Slot, error) {
	present, err := b.ReadBool()
	if err != nil {
		return Slot{}, err
	}
	if !present {
		return Slot{Present: false}, nil
	}
	itemID, err := b.ReadShort()
	if err != nil {
		return Slot{}, err
	}
	count, err := b.ReadByte_()
	if err != nil {
		return Slot{}, err
	}
	damage, err := b.ReadShort()
	if err != nil {
		return Slot{}, err
	}
	return Slot{Present: true, ItemID: itemID, Count: count, Damage: damage}, nil
}

func (b *Buffer) WriteSlotNoNBT(s Slot) error {
	if !s.Present {
		return b.WriteBool(false)
	}
	if err := b.WriteBool(true); err != nil {
		return err
	}
	if err := b.WriteShort(s.ItemID); err != nil {
		return err
	}
	if err := b.WriteByte_(s.Count); err != nil {
		return err
	}
	return b.WriteShort(s.Damage)
}

// EntityMetadata is a self-delimited stream of indexed typed values
// terminated by 0x7F. This module treats it opaquely: it reads the raw
// encoded bytes up to and including the terminator without interpreting
// individual entries, since no §4.4 handler inspects metadata contents.
func (b *Buffer) ReadMetadata() ([]byte, error) {
	var out bytes.Buffer
	for {
		index, err := b.buf.ReadByte()
		if err != nil {
			return nil, malformed("metadata: missing terminator", err)
		}
		out.WriteByte(index)
		if index == 0x7F {
			return out.Bytes(), nil
		}
		typeID, err := b.buf.ReadByte()
		if err != nil {
			return nil, malformed("metadata type", err)
		}
		out.WriteByte(typeID)
		n, err := metadataValueLen(b, typeID)
		if err != nil {
			return nil, err
		}
		out.Write(n)
	}
}

func (b *Buffer) WriteMetadata(raw []byte) error {
	_, err := b.buf.Write(raw)
	return err
}

// metadataValueLen consumes and returns the raw bytes of one metadata
// value, sized per its 1.8-era type id.
func metadataValueLen(b *Buffer, typeID byte) ([]byte, error) {
	switch typeID {
	case 0: // byte
		return b.readFull(1)
	case 1: // short
		return b.readFull(2)
	case 2: // int
		return b.readFull(4)
	case 3: // float
		return b.readFull(4)
	case 4: // string
		start := b.buf.Len()
		s, err := b.ReadString()
		if err != nil {
			return nil, err
		}
		consumed := start - b.buf.Len()
		_ = s
		_ = consumed
		// Reconstruct the exact bytes consumed (varint length + payload).
		var tmp bytes.Buffer
		wb := &Buffer{buf: &tmp}
		_ = wb.WriteString(s)
		return tmp.Bytes(), nil
	case 5: // slot
		var tmp bytes.Buffer
		wb := &Buffer{buf: &tmp}
		s, err := b.ReadSlot()
		if err != nil {
			return nil, err
		}
		_ = wb.WriteSlot(s)
		return tmp.Bytes(), nil
	case 6: // position (3 ints, pre-1.9 metadata)
		return b.readFull(12)
	case 7: // rotation (3 floats)
		return b.readFull(12)
	default:
		return nil, malformed("unknown metadata type", nil)
	}
}

// ReadRest consumes and returns every remaining byte.
func (b *Buffer) ReadRest() []byte {
	return b.buf.Next(b.buf.Len())
}

func (b *Buffer) WriteRest(data []byte) error {
	_, err := b.buf.Write(data)
	return err
}

// zlibCompress/zlibDecompress are used by the frame codec (§4.1).
func zlibCompress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Compress and Decompress are the exported forms zlibCompress/zlibDecompress
// take for use by pkg/proto/codec, which sits in a separate package.
func Compress(data []byte) ([]byte, error) { return zlibCompress(data) }
func Decompress(data []byte, expected int) ([]byte, error) { return zlibDecompress(data, expected) }

// CompressLevel compresses data at an explicit zlib level (1-9).
func CompressLevel(data []byte, level int) ([]byte, error) {
	var out bytes.Buffer
	zw, err := zlib.NewWriterLevel(&out, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func zlibDecompress(data []byte, expected int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed("zlib", err)
	}
	defer zr.Close()
	out := make([]byte, 0, expected)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, malformed("zlib", err)
	}
	return buf.Bytes(), nil
}
