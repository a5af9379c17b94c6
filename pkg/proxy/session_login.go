package proxy

import (
	"context"
	"time"

	"github.com/gatekit/mcproxy/internal/store"
	"github.com/gatekit/mcproxy/pkg/mojang"
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/proto/state"
	"github.com/gatekit/mcproxy/pkg/util/username"
	mcuuid "github.com/gatekit/mcproxy/pkg/util/uuid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// loginSessionHandler drives a client through LOGIN to PLAY (§4.3): read
// login-start, optionally authenticate with Mojang, send set-compression
// and login-success, register the player and dial the single backend.
type loginSessionHandler struct {
	conn *minecraftConn

	username    string
	verifyToken []byte
	properties  []packet.PlayerListItemProperty
}

func newLoginSessionHandler(conn *minecraftConn) *loginSessionHandler {
	return &loginSessionHandler{conn: conn}
}

func (h *loginSessionHandler) handlePacket(_ context.Context, pc *proto.PacketContext) {
	switch p := pc.Packet.(type) {
	case *packet.LoginStart:
		h.handleLoginStart(p)
	case *packet.EncryptionResponse:
		h.handleEncryptionResponse(p)
	}
}

func (h *loginSessionHandler) handleLoginStart(p *packet.LoginStart) {
	h.username = username.Fold(p.Username)
	cfg := h.conn.config()

	if st := h.conn.proxy.store; st != nil {
		if ban, banned := st.IsBanned(h.username); banned {
			reason := ban.Reason
			if reason == "" {
				reason = "You are banned from this server"
			}
			_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason(reason)})
			return
		}
	}

	if !cfg.OnlineMode {
		h.finishLogin(mcuuid.Offline(h.username))
		return
	}

	keyPair := h.conn.proxy.keyPair
	verifyToken, err := mojang.VerifyToken()
	if err != nil {
		_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason("internal encryption error")})
		return
	}
	h.verifyToken = verifyToken

	err = h.conn.WritePacket(proto.LoginEncryptionRequest, &packet.EncryptionRequest{
		ServerID:    "",
		PublicKey:   keyPair.Public,
		VerifyToken: verifyToken,
	})
	if err != nil {
		zap.L().Debug("failed to send encryption request", zap.Error(err))
	}
}

func (h *loginSessionHandler) handleEncryptionResponse(p *packet.EncryptionResponse) {
	keyPair := h.conn.proxy.keyPair

	verifyToken, err := keyPair.Decrypt(p.VerifyToken)
	if err != nil || string(verifyToken) != string(h.verifyToken) {
		_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason("invalid verify token")})
		return
	}

	sharedSecret, err := keyPair.Decrypt(p.SharedSecret)
	if err != nil {
		_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason("invalid shared secret")})
		return
	}

	if err := h.conn.enableEncryption(sharedSecret); err != nil {
		_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason("failed to enable encryption")})
		return
	}

	hash := mojang.ServerHash("", sharedSecret, keyPair.Public)
	resp, err := mojang.HasJoined(h.username, hash)
	if err != nil {
		zap.S().Warnf("mojang session verification failed for %q: %v", h.username, err)
		_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason("failed to verify username with Mojang")})
		return
	}
	online, err := resp.UUID()
	if err != nil {
		_ = h.conn.closeWith(proto.LoginDisconnect, &packet.LoginDisconnect{Reason: jsonDisconnectReason("malformed session response")})
		return
	}
	// the session response's name is the canonical-cased username
	h.username = resp.Name
	for _, prop := range resp.Properties {
		h.properties = append(h.properties, packet.PlayerListItemProperty{
			Name: prop.Name, Value: prop.Value, Signed: prop.Signature != "", Signature: prop.Signature,
		})
	}
	if st := h.conn.proxy.store; st != nil {
		_ = st.PutUUID(store.UUIDCacheEntry{Username: h.username, UUID: online.String(), CachedAt: time.Now()})
	}
	h.finishLogin(online)
}

// finishLogin negotiates compression, sends login-success, registers the
// player and hands the connection over to PLAY, dialing the single backend
// on the player's behalf (§2 data flow).
func (h *loginSessionHandler) finishLogin(online uuid.UUID) {
	cfg := h.conn.config()
	offline := mcuuid.Offline(h.username)

	if cfg.Compression.Threshold >= 0 {
		if err := h.conn.WritePacket(proto.LoginSetCompression, &packet.SetCompression{Threshold: int32(cfg.Compression.Threshold)}); err != nil {
			zap.L().Debug("failed to send set-compression", zap.Error(err))
			return
		}
		if err := h.conn.SetCompressionThreshold(cfg.Compression.Threshold); err != nil {
			zap.L().Debug("failed to enable compression", zap.Error(err))
			return
		}
	}

	if err := h.conn.WritePacket(proto.LoginSuccess, &packet.LoginSuccess{UUID: online.String(), Username: h.username}); err != nil {
		zap.L().Debug("failed to send login-success", zap.Error(err))
		return
	}
	h.conn.setState(state.Play)

	player := newConnectedPlayer(h.conn.proxy, h.conn, h.username, online, offline, h.properties)
	h.conn.proxy.registry.register(player, h.username, online, offline)
	h.conn.setSessionHandler(newClientPlaySessionHandler(player))

	go h.conn.proxy.connectBackend(player)
}

func (h *loginSessionHandler) handleUnknownPacket(*proto.PacketContext) { _ = h.conn.close() }
func (h *loginSessionHandler) disconnected()                           {}
func (h *loginSessionHandler) activated()                              {}
func (h *loginSessionHandler) deactivated()                            {}

var _ sessionHandler = (*loginSessionHandler)(nil)
