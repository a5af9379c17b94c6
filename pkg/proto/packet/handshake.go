// Package packet defines the typed packet structs this module parses or
// synthesizes (§3, §4.4), plus the factory registry the codec uses to
// construct the right struct for a resolved packet id.
package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// Handshake is the single HANDSHAKE-state packet: protocol version, host,
// port, and a next-state field (1=status, 2=login).
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func (p *Handshake) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(p.ProtocolVersion); err != nil {
		return err
	}
	if err := b.WriteString(p.ServerAddress); err != nil {
		return err
	}
	if err := b.WriteUShort(p.ServerPort); err != nil {
		return err
	}
	return b.WriteVarInt(p.NextState)
}

func (p *Handshake) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.ProtocolVersion, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.ServerAddress, err = b.ReadString(); err != nil {
		return err
	}
	if p.ServerPort, err = b.ReadUShort(); err != nil {
		return err
	}
	p.NextState, err = b.ReadVarInt()
	return err
}

// NextState values.
const (
	NextStateStatus int32 = 1
	NextStateLogin  int32 = 2
)
