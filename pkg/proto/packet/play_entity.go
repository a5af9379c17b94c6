package packet

import (
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/google/uuid"
)

// fixedPointToBlocks/blocksToFixedPoint convert between the pre-1.9
// wire's 1/32-block fixed-point integers and the canonical block-unit
// float the world model stores (§3 Entity, §9 design notes).
func fixedPointToBlocks(v int32) float64 { return float64(v) / 32.0 }
func blocksToFixedPoint(v float64) int32 { return int32(v * 32.0) }

// SpawnPlayer's wire carries the backend's UUID for the spawned
// other-player (§4.4 SPAWN_PLAYER); the proxy decodes it fully so it can
// rewrite that field and re-encode a replacement packet.
type SpawnPlayer struct {
	EntityID     int32
	PlayerUUID   uuid.UUID // normalized to raw form even in legacy string-UUID eras
	X, Y, Z      float64  // canonical block units
	Yaw, Pitch   int8     // packed angle
	CurrentItem  int16    // pre-1.9 only
	Rest         []byte   // metadata stream, forwarded opaque
}

func (p *SpawnPlayer) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(p.EntityID); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_7_6) {
		if err := b.WriteUUIDString(p.PlayerUUID); err != nil {
			return err
		}
	} else {
		if err := b.WriteUUID(p.PlayerUUID); err != nil {
			return err
		}
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if err := b.WriteInt(blocksToFixedPoint(p.X)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Y)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Z)); err != nil {
			return err
		}
	} else {
		if err := b.WriteDouble(p.X); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Y); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Z); err != nil {
			return err
		}
	}
	if err := b.WriteByte_(p.Yaw); err != nil {
		return err
	}
	if err := b.WriteByte_(p.Pitch); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if err := b.WriteShort(p.CurrentItem); err != nil {
			return err
		}
	}
	return b.WriteRest(p.Rest)
}

func (p *SpawnPlayer) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_7_6) {
		u, err := b.ReadUUIDString()
		if err != nil {
			return err
		}
		p.PlayerUUID = u
	} else {
		u, err := b.ReadUUID()
		if err != nil {
			return err
		}
		p.PlayerUUID = u
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		x, err := b.ReadInt()
		if err != nil {
			return err
		}
		y, err := b.ReadInt()
		if err != nil {
			return err
		}
		z, err := b.ReadInt()
		if err != nil {
			return err
		}
		p.X, p.Y, p.Z = fixedPointToBlocks(x), fixedPointToBlocks(y), fixedPointToBlocks(z)
	} else {
		if p.X, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Y, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Z, err = b.ReadDouble(); err != nil {
			return err
		}
	}
	if p.Yaw, err = b.ReadByte_(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadByte_(); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if p.CurrentItem, err = b.ReadShort(); err != nil {
			return err
		}
	}
	p.Rest = b.ReadRest()
	return nil
}

// SpawnObject decodes the prefix (eid, optional uuid, type, position,
// orientation) and ignores the rest; it is always forwarded raw (§4.4),
// never re-encoded, so the proxy itself never calls Encode.
type SpawnObject struct {
	EntityID  int32
	ObjectUUID uuid.UUID // 1.9+ only
	Type      int8
	X, Y, Z   float64
	Pitch, Yaw int8
	Data      int32
}

func (p *SpawnObject) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(p.EntityID); err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		if err := b.WriteUUID(p.ObjectUUID); err != nil {
			return err
		}
	}
	if err := b.WriteByte_(p.Type); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if err := b.WriteInt(blocksToFixedPoint(p.X)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Y)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Z)); err != nil {
			return err
		}
	} else {
		if err := b.WriteDouble(p.X); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Y); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Z); err != nil {
			return err
		}
	}
	if err := b.WriteByte_(p.Pitch); err != nil {
		return err
	}
	if err := b.WriteByte_(p.Yaw); err != nil {
		return err
	}
	return b.WriteInt(p.Data)
}

func (p *SpawnObject) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		u, err := b.ReadUUID()
		if err != nil {
			return err
		}
		p.ObjectUUID = u
	}
	if p.Type, err = b.ReadByte_(); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		x, err := b.ReadInt()
		if err != nil {
			return err
		}
		y, err := b.ReadInt()
		if err != nil {
			return err
		}
		z, err := b.ReadInt()
		if err != nil {
			return err
		}
		p.X, p.Y, p.Z = fixedPointToBlocks(x), fixedPointToBlocks(y), fixedPointToBlocks(z)
	} else {
		if p.X, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Y, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Z, err = b.ReadDouble(); err != nil {
			return err
		}
	}
	if p.Pitch, err = b.ReadByte_(); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadByte_(); err != nil {
		return err
	}
	p.Data, err = b.ReadInt()
	return err
}

// SpawnMob decodes the prefix the same way SpawnObject does, plus a type
// code resolved via a static name table (§4.6). Always forwarded raw.
type SpawnMob struct {
	EntityID   int32
	MobUUID    uuid.UUID // 1.9+ only
	Type       int32
	X, Y, Z    float64
	Yaw, Pitch, HeadPitch int8
}

func (p *SpawnMob) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		u, err := b.ReadUUID()
		if err != nil {
			return err
		}
		p.MobUUID = u
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		if p.Type, err = b.ReadVarInt(); err != nil {
			return err
		}
	} else {
		v, err := b.ReadUByte()
		if err != nil {
			return err
		}
		p.Type = int32(v)
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		x, err := b.ReadInt()
		if err != nil {
			return err
		}
		y, err := b.ReadInt()
		if err != nil {
			return err
		}
		z, err := b.ReadInt()
		if err != nil {
			return err
		}
		p.X, p.Y, p.Z = fixedPointToBlocks(x), fixedPointToBlocks(y), fixedPointToBlocks(z)
	} else {
		if p.X, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Y, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Z, err = b.ReadDouble(); err != nil {
			return err
		}
	}
	if p.Yaw, err = b.ReadByte_(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadByte_(); err != nil {
		return err
	}
	p.HeadPitch, err = b.ReadByte_()
	return err
}

func (p *SpawnMob) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	// Not called by the proxy itself: SpawnMob is always forwarded raw.
	if err := b.WriteVarInt(p.EntityID); err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		if err := b.WriteUUID(p.MobUUID); err != nil {
			return err
		}
		if err := b.WriteVarInt(p.Type); err != nil {
			return err
		}
	} else {
		if err := b.WriteUByte(uint8(p.Type)); err != nil {
			return err
		}
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if err := b.WriteInt(blocksToFixedPoint(p.X)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Y)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Z)); err != nil {
			return err
		}
	} else {
		if err := b.WriteDouble(p.X); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Y); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Z); err != nil {
			return err
		}
	}
	if err := b.WriteByte_(p.Yaw); err != nil {
		return err
	}
	if err := b.WriteByte_(p.Pitch); err != nil {
		return err
	}
	return b.WriteByte_(p.HeadPitch)
}

// EntityRelativeMove carries fixed-point position deltas (§4.4).
type EntityRelativeMove struct {
	EntityID       int32
	DX, DY, DZ     float64 // canonical block-unit deltas
	OnGround       bool
}

func (p *EntityRelativeMove) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		// 1.9+ deltas are 1/4096-block fixed point shorts; earlier eras
		// send 1/32-block fixed point bytes. Both become block units.
		dx, err := b.ReadShort()
		if err != nil {
			return err
		}
		dy, err := b.ReadShort()
		if err != nil {
			return err
		}
		dz, err := b.ReadShort()
		if err != nil {
			return err
		}
		p.DX, p.DY, p.DZ = float64(dx)/4096.0, float64(dy)/4096.0, float64(dz)/4096.0
	} else {
		dx, err := b.ReadByte_()
		if err != nil {
			return err
		}
		dy, err := b.ReadByte_()
		if err != nil {
			return err
		}
		dz, err := b.ReadByte_()
		if err != nil {
			return err
		}
		p.DX, p.DY, p.DZ = fixedPointToBlocks(int32(dx)), fixedPointToBlocks(int32(dy)), fixedPointToBlocks(int32(dz))
	}
	p.OnGround, err = b.ReadBool()
	return err
}

func (p *EntityRelativeMove) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(p.EntityID); err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(proto.Minecraft_1_9) {
		if err := b.WriteShort(int16(p.DX * 4096.0)); err != nil {
			return err
		}
		if err := b.WriteShort(int16(p.DY * 4096.0)); err != nil {
			return err
		}
		if err := b.WriteShort(int16(p.DZ * 4096.0)); err != nil {
			return err
		}
	} else {
		if err := b.WriteByte_(int8(blocksToFixedPoint(p.DX))); err != nil {
			return err
		}
		if err := b.WriteByte_(int8(blocksToFixedPoint(p.DY))); err != nil {
			return err
		}
		if err := b.WriteByte_(int8(blocksToFixedPoint(p.DZ))); err != nil {
			return err
		}
	}
	return b.WriteBool(p.OnGround)
}

// EntityTeleport overwrites the stored entity's position (§4.4).
type EntityTeleport struct {
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch int8
	OnGround   bool
}

func (p *EntityTeleport) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		x, err := b.ReadInt()
		if err != nil {
			return err
		}
		y, err := b.ReadInt()
		if err != nil {
			return err
		}
		z, err := b.ReadInt()
		if err != nil {
			return err
		}
		p.X, p.Y, p.Z = fixedPointToBlocks(x), fixedPointToBlocks(y), fixedPointToBlocks(z)
	} else {
		if p.X, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Y, err = b.ReadDouble(); err != nil {
			return err
		}
		if p.Z, err = b.ReadDouble(); err != nil {
			return err
		}
	}
	if p.Yaw, err = b.ReadByte_(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadByte_(); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

func (p *EntityTeleport) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(p.EntityID); err != nil {
		return err
	}
	if c.Protocol.Lower(proto.Minecraft_1_9) {
		if err := b.WriteInt(blocksToFixedPoint(p.X)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Y)); err != nil {
			return err
		}
		if err := b.WriteInt(blocksToFixedPoint(p.Z)); err != nil {
			return err
		}
	} else {
		if err := b.WriteDouble(p.X); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Y); err != nil {
			return err
		}
		if err := b.WriteDouble(p.Z); err != nil {
			return err
		}
	}
	if err := b.WriteByte_(p.Yaw); err != nil {
		return err
	}
	if err := b.WriteByte_(p.Pitch); err != nil {
		return err
	}
	return b.WriteBool(p.OnGround)
}

// AttachEntity covers both the pre-1.9 ATTACH_ENTITY packet (one
// passenger) and is reused conceptually for 1.9+ SET_PASSENGERS by the
// session handler (§4.4). A VehicleID of -1 or 0 (or an empty passenger
// list in the 1.9+ variant) is the detach sentinel.
type AttachEntity struct {
	EntityID  int32
	VehicleID int32 // -1/0 depending on era = detach
	Leash     bool
}

func (p *AttachEntity) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadInt(); err != nil {
		return err
	}
	if p.VehicleID, err = b.ReadInt(); err != nil {
		return err
	}
	p.Leash, err = b.ReadBool()
	return err
}

func (p *AttachEntity) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteInt(p.EntityID); err != nil {
		return err
	}
	if err := b.WriteInt(p.VehicleID); err != nil {
		return err
	}
	return b.WriteBool(p.Leash)
}

// SetPassengers is the 1.9+ equivalent of AttachEntity: a vehicle entity
// and the full list of entities riding it.
type SetPassengers struct {
	EntityID   int32
	Passengers []int32
}

func (p *SetPassengers) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	n, err := b.ReadVarInt()
	if err != nil {
		return err
	}
	p.Passengers = make([]int32, n)
	for i := range p.Passengers {
		if p.Passengers[i], err = b.ReadVarInt(); err != nil {
			return err
		}
	}
	return nil
}

func (p *SetPassengers) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(p.EntityID); err != nil {
		return err
	}
	if err := b.WriteVarInt(int32(len(p.Passengers))); err != nil {
		return err
	}
	for _, e := range p.Passengers {
		if err := b.WriteVarInt(e); err != nil {
			return err
		}
	}
	return nil
}

// DestroyEntities removes each listed eid from the world model (§4.4).
type DestroyEntities struct {
	EntityIDs []int32
}

func (p *DestroyEntities) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var count int32
	var err error
	if c.Protocol.GreaterEqual(proto.Minecraft_1_8) {
		count, err = b.ReadVarInt()
	} else {
		v, e := b.ReadUByte()
		count, err = int32(v), e
	}
	if err != nil {
		return err
	}
	p.EntityIDs = make([]int32, count)
	for i := range p.EntityIDs {
		if p.EntityIDs[i], err = b.ReadVarInt(); err != nil {
			return err
		}
	}
	return nil
}

func (p *DestroyEntities) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if c.Protocol.GreaterEqual(proto.Minecraft_1_8) {
		if err := b.WriteVarInt(int32(len(p.EntityIDs))); err != nil {
			return err
		}
	} else {
		if err := b.WriteUByte(uint8(len(p.EntityIDs))); err != nil {
			return err
		}
	}
	for _, e := range p.EntityIDs {
		if err := b.WriteVarInt(e); err != nil {
			return err
		}
	}
	return nil
}

// EntityProperties (§9 open question): never re-sent as a replacement;
// the whole packet forwards raw. Decode reads only the entity id; the
// property and modifier records after it are not parsed or checked.
type EntityProperties struct {
	EntityID int32
}

func (p *EntityProperties) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.EntityID, err = b.ReadVarInt()
	return err
}

func (p *EntityProperties) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteVarInt(p.EntityID)
}
