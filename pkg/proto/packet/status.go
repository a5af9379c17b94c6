package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// StatusRequest carries no fields; sent by the client to ask for a
// server-list ping response.
type StatusRequest struct{}

func (p *StatusRequest) Encode(*proto.PacketContext, *proto.Buffer) error { return nil }
func (p *StatusRequest) Decode(*proto.PacketContext, *proto.Buffer) error { return nil }

// StatusResponse carries the JSON status payload (§8 S1).
type StatusResponse struct {
	Status string // raw JSON
}

func (p *StatusResponse) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteString(p.Status)
}

func (p *StatusResponse) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Status, err = b.ReadString()
	return err
}

// StatusPing/StatusPong echo an opaque payload for latency measurement.
type StatusPing struct {
	Payload int64
}

func (p *StatusPing) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteLong(p.Payload)
}

func (p *StatusPing) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Payload, err = b.ReadLong()
	return err
}

type StatusPong struct {
	Payload int64
}

func (p *StatusPong) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteLong(p.Payload)
}

func (p *StatusPong) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Payload, err = b.ReadLong()
	return err
}
