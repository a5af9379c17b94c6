package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// PlayerDigging reports a dig action - start/cancel/finish digging, drop
// item, swap item in hand, depending on the Status enum's era - at a block
// location (§4.4 hook for event.PlayerDig). Status widens from a byte to a
// VarInt in 1.9, the same split KeepAlive's id takes; Face and any other
// trailing era-specific field pass through unexamined as Rest since only
// Location is consulted.
type PlayerDigging struct {
	Status   int32
	Location proto.Position
	Rest     []byte
}

func (p *PlayerDigging) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if err := b.WriteByte_(int8(p.Status)); err != nil {
			return err
		}
	} else if err := b.WriteVarInt(p.Status); err != nil {
		return err
	}
	if err := b.WritePosition(p.Location); err != nil {
		return err
	}
	return b.WriteRest(p.Rest)
}

func (p *PlayerDigging) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		v, err := b.ReadByte_()
		if err != nil {
			return err
		}
		p.Status = int32(v)
	} else if p.Status, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.Location, err = b.ReadPosition(); err != nil {
		return err
	}
	p.Rest = b.ReadRest()
	return nil
}

// PlayerBlockPlacement's Location field sits first in every era this
// module speaks even though the fields following it were reshuffled
// wholesale in 1.9 (direction/held-item/cursor bytes became hand/face
// VarInts and float cursor offsets); the remainder is kept as raw
// rest-of-frame, matching PlayerPosLook's precedent (§4.4 hook for
// event.PlayerPlace).
type PlayerBlockPlacement struct {
	Location proto.Position
	Rest     []byte
}

func (p *PlayerBlockPlacement) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WritePosition(p.Location); err != nil {
		return err
	}
	return b.WriteRest(p.Rest)
}

func (p *PlayerBlockPlacement) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.Location, err = b.ReadPosition(); err != nil {
		return err
	}
	p.Rest = b.ReadRest()
	return nil
}
