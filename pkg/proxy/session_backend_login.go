package proxy

import (
	"context"

	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/proto/state"
	"go.uber.org/zap"
)

// backendLoginBootstrap drives the proxy's own backend-facing connection
// through LOGIN exactly as a real client would, per §4.4's LOGIN table:
// 0x00 disconnect closes both legs, 0x01 encryption-request is fatal (the
// backend must run in offline mode; the proxy cannot satisfy Mojang
// authentication on a translated connection's behalf), 0x02 login-success
// hands off to the server-play pipeline, 0x03 set-compression reconfigures
// the codec threshold for this leg only.
type backendLoginBootstrap struct {
	player *connectedPlayer
	conn   *minecraftConn
}

func newBackendLoginBootstrap(player *connectedPlayer, conn *minecraftConn) *backendLoginBootstrap {
	return &backendLoginBootstrap{player: player, conn: conn}
}

func (h *backendLoginBootstrap) handlePacket(_ context.Context, pc *proto.PacketContext) {
	switch p := pc.Packet.(type) {
	case *packet.LoginDisconnect:
		zap.S().Infof("backend rejected %q at login: %s", h.player.username, p.Reason)
		h.player.disconnect("disconnected by backend server")
	case *packet.EncryptionRequest:
		zap.S().Warnf("backend for %q demanded encryption; backends must run in offline mode", h.player.username)
		h.player.disconnect("backend server requires online-mode authentication, which is not supported")
	case *packet.SetCompression:
		if err := h.conn.SetCompressionThreshold(int(p.Threshold)); err != nil {
			h.player.disconnect("failed to negotiate compression with backend server")
		}
	case *packet.LoginSuccess:
		h.conn.setState(state.Play)
		h.conn.setSessionHandler(newServerPlaySessionHandler(h.player, h.conn))
		h.player.proxy.event.Fire(&PlayerConnectEvent{Player: h.player})
	}
}

func (h *backendLoginBootstrap) handleUnknownPacket(*proto.PacketContext) {}
func (h *backendLoginBootstrap) disconnected()                           {}
func (h *backendLoginBootstrap) activated()                              {}
func (h *backendLoginBootstrap) deactivated()                            {}

var _ sessionHandler = (*backendLoginBootstrap)(nil)
