package codec

import (
	"io"
	"sync"

	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/state"
)

// Encoder writes framed packets to an underlying connection, applying
// compression and encryption as configured (§4.1).
type Encoder struct {
	mu sync.Mutex

	w io.Writer

	direction proto.Direction
	protocol  proto.Protocol
	st        *state.Registry

	compressionThreshold int // -1 == disabled
	compressionLevel     int
}

// NewEncoder returns an Encoder writing frames in direction dir to w.
func NewEncoder(w io.Writer, dir proto.Direction) *Encoder {
	return &Encoder{
		w:                    w,
		direction:            dir,
		protocol:             proto.Minecraft_1_7_2,
		st:                   state.Handshake,
		compressionThreshold: -1,
	}
}

func (e *Encoder) SetWriter(w io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.w = w
}

func (e *Encoder) SetProtocol(p proto.Protocol) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.protocol = p
}

func (e *Encoder) SetState(s *state.Registry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = s
}

// SetCompression enables compression for payloads >= threshold bytes,
// compressing at the given zlib level. threshold < 0 disables compression.
func (e *Encoder) SetCompression(threshold, level int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compressionThreshold = threshold
	e.compressionLevel = level
}

// WritePacket encodes p (looking up its numeric id for the current state,
// protocol and direction) and writes the framed result.
func (e *Encoder) WritePacket(name proto.PacketName, p proto.Packet) error {
	e.mu.Lock()
	st := e.st
	protocolVersion := e.protocol
	direction := e.direction
	e.mu.Unlock()

	idMap := proto.MapForState(st)
	var id int32
	if direction == proto.ClientBound {
		id = idMap.ClientBound(name, protocolVersion)
	} else {
		id = idMap.ServerBound(name, protocolVersion)
	}
	if id == proto.NeverMatches {
		return &proto.MalformedPacketError{Reason: "packet " + string(name) + " does not exist in this protocol version"}
	}

	buf := proto.NewWriteBuffer()
	if err := buf.WriteVarInt(id); err != nil {
		return err
	}
	ctx := &proto.PacketContext{Direction: direction, Protocol: protocolVersion, State: st, PacketID: id}
	if err := p.Encode(ctx, buf); err != nil {
		return err
	}
	return e.Write(buf.Bytes())
}

// Write frames and writes a raw, already-id-prefixed payload. Used both by
// WritePacket and for forwarding unknown packets verbatim (§3 invariants).
func (e *Encoder) Write(payload []byte) error {
	e.mu.Lock()
	threshold := e.compressionThreshold
	level := e.compressionLevel
	e.mu.Unlock()

	frame := proto.NewWriteBuffer()
	if threshold < 0 {
		if err := frame.WriteVarInt(int32(len(payload))); err != nil {
			return err
		}
		if err := frame.WriteRest(payload); err != nil {
			return err
		}
	} else if len(payload) < threshold {
		// Below threshold: data length 0, payload uncompressed.
		body := proto.NewWriteBuffer()
		if err := body.WriteVarInt(0); err != nil {
			return err
		}
		if err := body.WriteRest(payload); err != nil {
			return err
		}
		if err := frame.WriteVarInt(int32(body.Len())); err != nil {
			return err
		}
		if err := frame.WriteRest(body.Bytes()); err != nil {
			return err
		}
	} else {
		compressed, err := compressAt(payload, level)
		if err != nil {
			return err
		}
		body := proto.NewWriteBuffer()
		if err := body.WriteVarInt(int32(len(payload))); err != nil {
			return err
		}
		if err := body.WriteRest(compressed); err != nil {
			return err
		}
		if err := frame.WriteVarInt(int32(body.Len())); err != nil {
			return err
		}
		if err := frame.WriteRest(body.Bytes()); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.w.Write(frame.Bytes())
	return err
}

// Sync runs flush (e.g. a bufio.Writer.Flush) under the encoder's lock, so
// it never interleaves with a concurrent WritePacket/Write call's bytes.
func (e *Encoder) Sync(flush func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return flush()
}

func compressAt(data []byte, level int) ([]byte, error) {
	if level <= 0 {
		return proto.Compress(data)
	}
	return proto.CompressLevel(data, level)
}
