package proxy

import (
	"context"

	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/proto/state"
	"go.uber.org/zap"
)

// handshakeSessionHandler handles the single HANDSHAKE-state packet a
// freshly accepted connection ever sends (§4.3).
type handshakeSessionHandler struct {
	conn *minecraftConn
}

func newHandshakeSessionHandler(conn *minecraftConn) *handshakeSessionHandler {
	return &handshakeSessionHandler{conn: conn}
}

func (h *handshakeSessionHandler) handlePacket(_ context.Context, pc *proto.PacketContext) {
	hs, ok := pc.Packet.(*packet.Handshake)
	if !ok {
		return
	}
	h.conn.setProtocol(proto.Protocol(hs.ProtocolVersion))
	switch hs.NextState {
	case packet.NextStateStatus:
		h.conn.setState(state.Status)
		h.conn.setSessionHandler(newStatusSessionHandler(h.conn))
	case packet.NextStateLogin:
		h.conn.setState(state.Login)
		h.conn.setSessionHandler(newLoginSessionHandler(h.conn))
	default:
		zap.L().Debug("handshake with unknown next state, closing", zap.Int32("nextState", hs.NextState))
		_ = h.conn.close()
	}
}

func (h *handshakeSessionHandler) handleUnknownPacket(*proto.PacketContext) {
	_ = h.conn.close()
}

func (h *handshakeSessionHandler) disconnected() {}
func (h *handshakeSessionHandler) activated()    {}
func (h *handshakeSessionHandler) deactivated()  {}

var _ sessionHandler = (*handshakeSessionHandler)(nil)
