package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/proto/state"
	"go.uber.org/zap"
)

// ErrDecoderLeftBytes is returned (alongside a valid PacketContext) when a
// packet's declared length didn't consume the whole frame; the decoder
// still hands back what it decoded, per the teacher's "ignore this error"
// handling in the read loop.
var ErrDecoderLeftBytes = errors.New("codec: decoder did not consume all bytes of packet")

// Decoder reads framed packets from an underlying connection, undoing
// compression and encryption as configured (§4.1).
type Decoder struct {
	mu sync.Mutex

	r io.Reader

	direction proto.Direction
	protocol  proto.Protocol
	st        *state.Registry

	compressionThreshold int // -1 == disabled

	connDetails func() []zap.Field
}

// NewDecoder returns a Decoder reading frames in direction dir from r.
func NewDecoder(r io.Reader, dir proto.Direction, connDetails func() []zap.Field) *Decoder {
	return &Decoder{
		r:                    r,
		direction:            dir,
		protocol:             proto.Minecraft_1_7_2,
		st:                   state.Handshake,
		compressionThreshold: -1,
		connDetails:          connDetails,
	}
}

func (d *Decoder) SetReader(r io.Reader) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.r = r
}

func (d *Decoder) SetProtocol(p proto.Protocol) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.protocol = p
}

func (d *Decoder) SetState(s *state.Registry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.st = s
}

func (d *Decoder) SetCompressionThreshold(threshold int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.compressionThreshold = threshold
}

// byteReader adapts an io.Reader lacking ReadByte (e.g. the decrypting
// reader, which only implements Read) to io.ByteReader, one byte per call.
type byteReader struct{ r io.Reader }

func (b *byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadPacket reads and decodes the next packet frame.
func (d *Decoder) ReadPacket() (*proto.PacketContext, error) {
	d.mu.Lock()
	r := d.r
	direction := d.direction
	protocolVersion := d.protocol
	st := d.st
	threshold := d.compressionThreshold
	d.mu.Unlock()

	br := &byteReader{r: r}
	frameLen, err := proto.ReadVarInt(br)
	if err != nil {
		return nil, err
	}
	if frameLen < 0 || frameLen > 1<<21 {
		return nil, fmt.Errorf("codec: %w: frame length %d out of range", proto.ErrMalformedPacket, frameLen)
	}
	frame := make([]byte, frameLen)
	if _, err := io.ReadFull(r, frame); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("codec: %w: %v", proto.ErrIncompletePacket, err)
		}
		return nil, err
	}

	var body []byte
	if threshold >= 0 {
		fb := bytes.NewReader(frame)
		dataLen, err := proto.ReadVarInt(fb)
		if err != nil {
			return nil, fmt.Errorf("codec: %w: data length: %v", proto.ErrMalformedPacket, err)
		}
		rest := frame[len(frame)-fb.Len():]
		if dataLen == 0 {
			body = rest
		} else {
			body, err = decompress(rest, int(dataLen))
			if err != nil {
				return nil, err
			}
		}
	} else {
		body = frame
	}

	buf := proto.NewBuffer(body)
	packetID, err := buf.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("codec: %w: packet id: %v", proto.ErrMalformedPacket, err)
	}

	idMap := proto.MapForState(st)
	var name proto.PacketName
	var ok bool
	if direction == proto.ClientBound {
		name, ok = idMap.NameForClientBound(packetID, protocolVersion)
	} else {
		name, ok = idMap.NameForServerBound(packetID, protocolVersion)
	}

	ctx := &proto.PacketContext{
		Direction: direction,
		Protocol:  protocolVersion,
		State:     st,
		PacketID:  packetID,
		Payload:   body,
	}
	if !ok {
		ctx.KnownPacket = false
		return ctx, nil
	}
	factory, ok := packet.Factories[name]
	if !ok {
		ctx.KnownPacket = false
		return ctx, nil
	}
	p := factory()
	if err := p.Decode(ctx, buf); err != nil {
		return nil, fmt.Errorf("codec: %w: decoding %s: %v", proto.ErrMalformedPacket, name, err)
	}
	ctx.KnownPacket = true
	ctx.Packet = p
	if buf.Len() != 0 {
		return ctx, ErrDecoderLeftBytes
	}
	return ctx, nil
}

func decompress(data []byte, expected int) ([]byte, error) {
	out, err := proto.Decompress(data, expected)
	if err != nil {
		return nil, fmt.Errorf("codec: %w: %v", proto.ErrMalformedPacket, err)
	}
	return out, nil
}
