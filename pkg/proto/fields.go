package proto

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldType tags one positional field in a packet's wire layout. §4.1
// requires the codec support exactly this set; decoding is always driven
// by the tag the caller names, never inferred from the payload.
type FieldType uint8

const (
	FieldString FieldType = iota
	FieldJSON
	FieldUByte
	FieldByte
	FieldInt
	FieldShort
	FieldUShort
	FieldLong
	FieldDouble
	FieldFloat
	FieldBool
	FieldVarInt
	FieldByteArray
	FieldByteArrayShort
	FieldPosition
	FieldSlot
	FieldSlotNoNBT
	FieldUUID
	FieldMetadata
	FieldRest
	FieldNull
)

// FieldSpec is an ordered field-type list describing a packet's payload.
type FieldSpec []FieldType

// EncodeFields writes values to b in the order spec describes. len(values)
// must equal len(spec) except that FieldNull consumes no value.
func EncodeFields(b *Buffer, spec FieldSpec, values []interface{}) error {
	vi := 0
	next := func() interface{} {
		v := values[vi]
		vi++
		return v
	}
	for _, f := range spec {
		switch f {
		case FieldNull:
			continue
		case FieldString:
			if err := b.WriteString(next().(string)); err != nil {
				return err
			}
		case FieldJSON:
			if err := b.WriteJSON(next().(string)); err != nil {
				return err
			}
		case FieldUByte:
			if err := b.WriteUByte(next().(uint8)); err != nil {
				return err
			}
		case FieldByte:
			if err := b.WriteByte_(next().(int8)); err != nil {
				return err
			}
		case FieldInt:
			if err := b.WriteInt(next().(int32)); err != nil {
				return err
			}
		case FieldShort:
			if err := b.WriteShort(next().(int16)); err != nil {
				return err
			}
		case FieldUShort:
			if err := b.WriteUShort(next().(uint16)); err != nil {
				return err
			}
		case FieldLong:
			if err := b.WriteLong(next().(int64)); err != nil {
				return err
			}
		case FieldDouble:
			if err := b.WriteDouble(next().(float64)); err != nil {
				return err
			}
		case FieldFloat:
			if err := b.WriteFloat(next().(float32)); err != nil {
				return err
			}
		case FieldBool:
			if err := b.WriteBool(next().(bool)); err != nil {
				return err
			}
		case FieldVarInt:
			if err := b.WriteVarInt(next().(int32)); err != nil {
				return err
			}
		case FieldByteArray:
			if err := b.WriteByteArray(next().([]byte)); err != nil {
				return err
			}
		case FieldByteArrayShort:
			if err := b.WriteByteArrayShort(next().([]byte)); err != nil {
				return err
			}
		case FieldPosition:
			if err := b.WritePosition(next().(Position)); err != nil {
				return err
			}
		case FieldSlot:
			if err := b.WriteSlot(next().(Slot)); err != nil {
				return err
			}
		case FieldSlotNoNBT:
			if err := b.WriteSlotNoNBT(next().(Slot)); err != nil {
				return err
			}
		case FieldUUID:
			if err := b.WriteUUID(next().(uuid.UUID)); err != nil {
				return err
			}
		case FieldMetadata:
			if err := b.WriteMetadata(next().([]byte)); err != nil {
				return err
			}
		case FieldRest:
			if err := b.WriteRest(next().([]byte)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("proto: unknown field type %d", f)
		}
	}
	return nil
}

// DecodeFields reads spec's fields from b and returns them in order,
// skipping FieldNull entries (they produce no value).
func DecodeFields(b *Buffer, spec FieldSpec) ([]interface{}, error) {
	out := make([]interface{}, 0, len(spec))
	for _, f := range spec {
		switch f {
		case FieldNull:
			continue
		case FieldString:
			v, err := b.ReadString()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldJSON:
			v, err := b.ReadJSON()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldUByte:
			v, err := b.ReadUByte()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldByte:
			v, err := b.ReadByte_()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldInt:
			v, err := b.ReadInt()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldShort:
			v, err := b.ReadShort()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldUShort:
			v, err := b.ReadUShort()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldLong:
			v, err := b.ReadLong()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldDouble:
			v, err := b.ReadDouble()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldFloat:
			v, err := b.ReadFloat()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldBool:
			v, err := b.ReadBool()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldVarInt:
			v, err := b.ReadVarInt()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldByteArray:
			v, err := b.ReadByteArray()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldByteArrayShort:
			v, err := b.ReadByteArrayShort()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldPosition:
			v, err := b.ReadPosition()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldSlot:
			v, err := b.ReadSlot()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldSlotNoNBT:
			v, err := b.ReadSlotNoNBT()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldUUID:
			v, err := b.ReadUUID()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldMetadata:
			v, err := b.ReadMetadata()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case FieldRest:
			out = append(out, b.ReadRest())
		default:
			return nil, fmt.Errorf("proto: unknown field type %d", f)
		}
	}
	return out, nil
}
