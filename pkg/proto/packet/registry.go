package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// Factory constructs a zero-valued packet struct ready for Decode.
type Factory func() proto.Packet

// Factories maps every symbolic packet name this module parses to its
// struct constructor. The codec uses it to pick which struct to decode a
// resolved packet id into; a name absent here (even one the packet-id maps
// in pkg/proto resolve, such as ENTITY_EQUIPMENT) is reported to the
// session handler as an unknown packet and forwarded raw.
var Factories = map[proto.PacketName]Factory{
	proto.HandshakeIntention: func() proto.Packet { return new(Handshake) },

	proto.StatusRequest:  func() proto.Packet { return new(StatusRequest) },
	proto.StatusResponse: func() proto.Packet { return new(StatusResponse) },
	proto.StatusPing:     func() proto.Packet { return new(StatusPing) },
	proto.StatusPong:     func() proto.Packet { return new(StatusPong) },

	proto.LoginStart:              func() proto.Packet { return new(LoginStart) },
	proto.LoginEncryptionRequest:  func() proto.Packet { return new(EncryptionRequest) },
	proto.LoginEncryptionResponse: func() proto.Packet { return new(EncryptionResponse) },
	proto.LoginSuccess:            func() proto.Packet { return new(LoginSuccess) },
	proto.LoginSetCompression:     func() proto.Packet { return new(SetCompression) },
	proto.LoginDisconnect:         func() proto.Packet { return new(LoginDisconnect) },

	proto.KeepAlive:          func() proto.Packet { return new(KeepAlive) },
	proto.ChatMessage:        func() proto.Packet { return new(Chat) },
	proto.Disconnect:         func() proto.Packet { return new(Disconnect) },
	proto.TimeUpdate:         func() proto.Packet { return new(TimeUpdate) },
	proto.ChangeGameState:    func() proto.Packet { return new(ChangeGameState) },
	proto.JoinGame:           func() proto.Packet { return new(JoinGame) },
	proto.Respawn:            func() proto.Packet { return new(Respawn) },
	proto.SpawnPosition:      func() proto.Packet { return new(SpawnPosition) },
	proto.PlayerPosLook:      func() proto.Packet { return new(PlayerPosLook) },
	proto.UseBed:             func() proto.Packet { return new(UseBed) },
	proto.SpawnPlayer:        func() proto.Packet { return new(SpawnPlayer) },
	proto.SpawnObject:        func() proto.Packet { return new(SpawnObject) },
	proto.SpawnMob:           func() proto.Packet { return new(SpawnMob) },
	proto.EntityRelativeMove: func() proto.Packet { return new(EntityRelativeMove) },
	proto.EntityTeleport:     func() proto.Packet { return new(EntityTeleport) },
	proto.AttachEntity:       func() proto.Packet { return new(AttachEntity) },
	proto.SetPassengers:      func() proto.Packet { return new(SetPassengers) },
	proto.DestroyEntities:    func() proto.Packet { return new(DestroyEntities) },
	proto.OpenWindow:         func() proto.Packet { return new(OpenWindow) },
	proto.SetSlot:            func() proto.Packet { return new(SetSlot) },
	proto.WindowItems:        func() proto.Packet { return new(WindowItems) },
	proto.EntityProperties:   func() proto.Packet { return new(EntityProperties) },
	proto.PlayerListItem:     func() proto.Packet { return new(PlayerListItem) },

	proto.PlayerDigging:        func() proto.Packet { return new(PlayerDigging) },
	proto.PlayerBlockPlacement: func() proto.Packet { return new(PlayerBlockPlacement) },
}
