package proto

import "github.com/gatekit/mcproxy/pkg/proto/state"

// Packet is any typed, decoded Minecraft packet.
type Packet interface {
	// Encode writes the packet's fields to the buffer.
	Encode(c *PacketContext, b *Buffer) error
	// Decode reads the packet's fields from the buffer.
	Decode(c *PacketContext, b *Buffer) error
}

// PacketContext carries the direction, protocol version and registry
// state a packet is being en/decoded under, since wire layout varies by
// both across the protocol eras this module speaks.
type PacketContext struct {
	Direction   Direction
	Protocol    Protocol
	State       *state.Registry
	PacketID    int32
	KnownPacket bool
	Packet      Packet // nil if KnownPacket is false
	Payload     []byte // raw payload, always populated
}
