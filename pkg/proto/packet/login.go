package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// LoginStart is the first server-bound LOGIN packet: the username the
// client wants to join as.
type LoginStart struct {
	Username string
}

func (p *LoginStart) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteString(p.Username)
}

func (p *LoginStart) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Username, err = b.ReadString()
	return err
}

// EncryptionRequest (client-bound, LOGIN 0x01). §4.4: if received by a
// server session (i.e. the backend demands online-mode auth) this is
// fatal — the proxy cannot complete Mojang auth on behalf of a backend
// it is impersonating.
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (p *EncryptionRequest) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteString(p.ServerID); err != nil {
		return err
	}
	if err := b.WriteByteArray(p.PublicKey); err != nil {
		return err
	}
	return b.WriteByteArray(p.VerifyToken)
}

func (p *EncryptionRequest) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.ServerID, err = b.ReadString(); err != nil {
		return err
	}
	if p.PublicKey, err = b.ReadByteArray(); err != nil {
		return err
	}
	p.VerifyToken, err = b.ReadByteArray()
	return err
}

// EncryptionResponse (server-bound, LOGIN 0x01): the shared secret and
// verify token, both encrypted with the server's public RSA key.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (p *EncryptionResponse) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteByteArray(p.SharedSecret); err != nil {
		return err
	}
	return b.WriteByteArray(p.VerifyToken)
}

func (p *EncryptionResponse) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.SharedSecret, err = b.ReadByteArray(); err != nil {
		return err
	}
	p.VerifyToken, err = b.ReadByteArray()
	return err
}

// LoginSuccess (client-bound, LOGIN 0x02): assigns the client its UUID
// and username and transitions the connection to PLAY.
type LoginSuccess struct {
	UUID     string // string form; legacy versions send hyphenated text
	Username string
}

func (p *LoginSuccess) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteString(p.UUID); err != nil {
		return err
	}
	return b.WriteString(p.Username)
}

func (p *LoginSuccess) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.UUID, err = b.ReadString(); err != nil {
		return err
	}
	p.Username, err = b.ReadString()
	return err
}

// SetCompression (client-bound, LOGIN 0x03): reconfigures the codec's
// compression threshold. A negative threshold disables compression.
type SetCompression struct {
	Threshold int32
}

func (p *SetCompression) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteVarInt(p.Threshold)
}

func (p *SetCompression) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Threshold, err = b.ReadVarInt()
	return err
}

// LoginDisconnect (client-bound, LOGIN 0x00): a JSON chat reason.
type LoginDisconnect struct {
	Reason string // raw JSON
}

func (p *LoginDisconnect) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	return b.WriteString(p.Reason)
}

func (p *LoginDisconnect) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	p.Reason, err = b.ReadString()
	return err
}
