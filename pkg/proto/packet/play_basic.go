package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// KeepAlive's id field widens across protocol eras: a 4-byte int pre-1.8,
// a VarInt through 1.8.x, a Long from 1.9 on (§4.4 KEEP_ALIVE).
type KeepAlive struct {
	RandomID int64
}

func (p *KeepAlive) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	switch {
	case c.Protocol.Lower(proto.Minecraft_1_8):
		return b.WriteInt(int32(p.RandomID))
	case c.Protocol.Lower(proto.Minecraft_1_9):
		return b.WriteVarInt(int32(p.RandomID))
	default:
		return b.WriteLong(p.RandomID)
	}
}

func (p *KeepAlive) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	switch {
	case c.Protocol.Lower(proto.Minecraft_1_8):
		v, err := b.ReadInt()
		p.RandomID = int64(v)
		return err
	case c.Protocol.Lower(proto.Minecraft_1_9):
		v, err := b.ReadVarInt()
		p.RandomID = int64(v)
		return err
	default:
		v, err := b.ReadLong()
		p.RandomID = v
		return err
	}
}

// Chat message position, matching the field surfaced in §4.4 CHAT_MESSAGE.
type ChatPosition int8

const (
	ChatPositionChat      ChatPosition = 0
	ChatPositionSystem    ChatPosition = 1
	ChatPositionActionBar ChatPosition = 2
)

// Chat carries a JSON chat component and its display position.
type Chat struct {
	Message  string // raw JSON
	Position ChatPosition
}

func (p *Chat) Encode(c *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteJSON(p.Message); err != nil {
		return err
	}
	if c.Direction == proto.ClientBound {
		return b.WriteByte_(int8(p.Position))
	}
	return nil
}

func (p *Chat) Decode(c *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.Message, err = b.ReadJSON(); err != nil {
		return err
	}
	if c.Direction == proto.ClientBound {
		v, err := b.ReadByte_()
		p.Position = ChatPosition(v)
		return err
	}
	return nil
}

// Disconnect carries a JSON chat reason shown to the client before the
// connection closes (§4.4 DISCONNECT, §7 user-visible failures).
type Disconnect struct {
	Reason string // raw JSON
}

func (p *Disconnect) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteString(p.Reason)
}

func (p *Disconnect) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Reason, err = b.ReadString()
	return err
}

// TimeUpdate carries the world age and the time-of-day (§4.4, §4.6 world clock).
type TimeUpdate struct {
	WorldAge  int64
	TimeOfDay int64
}

func (p *TimeUpdate) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteLong(p.WorldAge); err != nil {
		return err
	}
	return b.WriteLong(p.TimeOfDay)
}

func (p *TimeUpdate) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.WorldAge, err = b.ReadLong(); err != nil {
		return err
	}
	p.TimeOfDay, err = b.ReadLong()
	return err
}

// ChangeGameState reason 3 carries a new gamemode (§4.4 CHANGE_GAME_STATE).
type ChangeGameState struct {
	Reason byte
	Value  float32
}

const ChangeGameStateReasonGameMode byte = 3

func (p *ChangeGameState) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteUByte(p.Reason); err != nil {
		return err
	}
	return b.WriteFloat(p.Value)
}

func (p *ChangeGameState) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.Reason, err = b.ReadUByte(); err != nil {
		return err
	}
	p.Value, err = b.ReadFloat()
	return err
}

// JoinGame is only ever observed client-bound from the backend; the
// proxy records servereid, gamemode and dimension from it (§4.4
// JOIN_GAME) and otherwise forwards it unmodified.
type JoinGame struct {
	EntityID         int32
	Gamemode         byte
	Dimension        int32
	Difficulty       byte
	MaxPlayers       byte
	LevelType        string
	ReducedDebugInfo bool
}

func (p *JoinGame) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteInt(p.EntityID); err != nil {
		return err
	}
	if err := b.WriteUByte(p.Gamemode); err != nil {
		return err
	}
	if err := b.WriteInt(p.Dimension); err != nil {
		return err
	}
	if err := b.WriteUByte(p.Difficulty); err != nil {
		return err
	}
	if err := b.WriteUByte(p.MaxPlayers); err != nil {
		return err
	}
	if err := b.WriteString(p.LevelType); err != nil {
		return err
	}
	return b.WriteBool(p.ReducedDebugInfo)
}

func (p *JoinGame) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadInt(); err != nil {
		return err
	}
	if p.Gamemode, err = b.ReadUByte(); err != nil {
		return err
	}
	if p.Dimension, err = b.ReadInt(); err != nil {
		return err
	}
	if p.Difficulty, err = b.ReadUByte(); err != nil {
		return err
	}
	if p.MaxPlayers, err = b.ReadUByte(); err != nil {
		return err
	}
	if p.LevelType, err = b.ReadString(); err != nil {
		return err
	}
	p.ReducedDebugInfo, err = b.ReadBool()
	return err
}

// Respawn updates gamemode and dimension (§4.4 RESPAWN).
type Respawn struct {
	Dimension  int32
	Difficulty byte
	Gamemode   byte
	LevelType  string
}

func (p *Respawn) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteInt(p.Dimension); err != nil {
		return err
	}
	if err := b.WriteUByte(p.Difficulty); err != nil {
		return err
	}
	if err := b.WriteUByte(p.Gamemode); err != nil {
		return err
	}
	return b.WriteString(p.LevelType)
}

func (p *Respawn) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.Dimension, err = b.ReadInt(); err != nil {
		return err
	}
	if p.Difficulty, err = b.ReadUByte(); err != nil {
		return err
	}
	if p.Gamemode, err = b.ReadUByte(); err != nil {
		return err
	}
	p.LevelType, err = b.ReadString()
	return err
}

// SpawnPosition records the player spawn-equivalent location (§4.4 SPAWN_POSITION).
type SpawnPosition struct {
	Location proto.Position
}

func (p *SpawnPosition) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WritePosition(p.Location)
}

func (p *SpawnPosition) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Location, err = b.ReadPosition()
	return err
}

// PlayerPosLook's layout shares a prefix (x,y,z,yaw,pitch) across every
// era this module speaks; the remainder (on-ground / flags / teleport id
// depending on era) is captured as raw rest-of-frame and passed through
// unexamined, per §4.4.
type PlayerPosLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Rest       []byte
}

func (p *PlayerPosLook) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteDouble(p.X); err != nil {
		return err
	}
	if err := b.WriteDouble(p.Y); err != nil {
		return err
	}
	if err := b.WriteDouble(p.Z); err != nil {
		return err
	}
	if err := b.WriteFloat(p.Yaw); err != nil {
		return err
	}
	if err := b.WriteFloat(p.Pitch); err != nil {
		return err
	}
	return b.WriteRest(p.Rest)
}

func (p *PlayerPosLook) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.X, err = b.ReadDouble(); err != nil {
		return err
	}
	if p.Y, err = b.ReadDouble(); err != nil {
		return err
	}
	if p.Z, err = b.ReadDouble(); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadFloat(); err != nil {
		return err
	}
	p.Rest = b.ReadRest()
	return nil
}

// UseBed: if EntityID matches servereid, the bed position is recorded
// (§4.4 USE_BED).
type UseBed struct {
	EntityID int32
	Location proto.Position
}

func (p *UseBed) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteInt(p.EntityID); err != nil {
		return err
	}
	return b.WritePosition(p.Location)
}

func (p *UseBed) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.EntityID, err = b.ReadInt(); err != nil {
		return err
	}
	p.Location, err = b.ReadPosition()
	return err
}
