package proxy

import (
	"context"
	"strings"

	"github.com/gatekit/mcproxy/pkg/event"
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"go.uber.org/zap"
)

// clientPlaySessionHandler parses the client's server-bound PLAY stream:
// KEEP_ALIVE is answered against the backend's own clock, CHAT_MESSAGE is
// checked against the configured command prefix, and PLAYER_DIGGING/
// PLAYER_BLOCK_PLACEMENT are decoded just far enough to fire player.dig/
// player.place - each is given a chance to be vetoed by the plugin bus
// before its raw bytes are forwarded, everything else forwards raw
// untouched (§4.4 data flow, "server-bound packets from the client
// traverse the symmetric path").
type clientPlaySessionHandler struct {
	player *connectedPlayer
}

func newClientPlaySessionHandler(player *connectedPlayer) *clientPlaySessionHandler {
	return &clientPlaySessionHandler{player: player}
}

func (c *clientPlaySessionHandler) handlePacket(_ context.Context, pc *proto.PacketContext) {
	backend := c.backend()

	switch p := pc.Packet.(type) {
	case *packet.KeepAlive:
		if backend != nil {
			_ = backend.WritePacket(proto.KeepAlive, p)
		}
		return

	case *packet.Chat:
		c.handleChat(backend, p)
		return

	case *packet.PlayerDigging:
		c.handleDig(backend, p, pc)
		return

	case *packet.PlayerBlockPlacement:
		c.handlePlace(backend, p, pc)
		return
	}

	if backend != nil {
		_ = backend.Write(pc.Payload)
	}
}

func (c *clientPlaySessionHandler) backend() *minecraftConn {
	c.player.mu.RLock()
	defer c.player.mu.RUnlock()
	return c.player.backend
}

// handleChat applies the configured command prefix (§6 command-prefix):
// a message beginning with it first fires CommandExecuteEvent and is
// dropped if a handler disallows it; otherwise it is forwarded as chat.
func (c *clientPlaySessionHandler) handleChat(backend *minecraftConn, p *packet.Chat) {
	if backend == nil {
		return
	}

	prefix := c.player.proxy.config.CommandPrefix
	if prefix != "" && strings.HasPrefix(p.Message, prefix) {
		e := &CommandExecuteEvent{
			Player:      c.player,
			CommandLine: strings.TrimPrefix(p.Message, prefix),
		}
		e.allowed = true
		c.player.proxy.event.Fire(e)
		if !e.Allowed() {
			return
		}
	}

	zap.S().Debugf("chat> %s: %s", c.player, p.Message)
	_ = backend.WritePacket(proto.ChatMessage, p)
}

// handleDig applies the player.dig verdict (§4.4 PLAYER_DIGGING): a Drop
// swallows the dig action entirely, anything else forwards the packet raw,
// unmodified, since there is no rewritable payload short of the whole frame.
func (c *clientPlaySessionHandler) handleDig(backend *minecraftConn, p *packet.PlayerDigging, pc *proto.PacketContext) {
	if backend == nil {
		return
	}
	pos := positionToBlockPos(p.Location)
	verdict := c.player.proxy.event.FirePayload(event.PlayerDig, map[string]interface{}{
		"player": c.player.username,
		"x":      pos.X,
		"y":      pos.Y,
		"z":      pos.Z,
	})
	if verdict.IsDrop() {
		return
	}
	_ = backend.Write(pc.Payload)
}

// handlePlace applies the player.place verdict (§4.4 PLAYER_BLOCK_PLACEMENT),
// same Drop-or-forward-raw contract as handleDig.
func (c *clientPlaySessionHandler) handlePlace(backend *minecraftConn, p *packet.PlayerBlockPlacement, pc *proto.PacketContext) {
	if backend == nil {
		return
	}
	pos := positionToBlockPos(p.Location)
	verdict := c.player.proxy.event.FirePayload(event.PlayerPlace, map[string]interface{}{
		"player": c.player.username,
		"x":      pos.X,
		"y":      pos.Y,
		"z":      pos.Z,
	})
	if verdict.IsDrop() {
		return
	}
	_ = backend.Write(pc.Payload)
}

func (c *clientPlaySessionHandler) handleUnknownPacket(pc *proto.PacketContext) {
	if backend := c.backend(); backend != nil {
		_ = backend.Write(pc.Payload)
	}
}

func (c *clientPlaySessionHandler) disconnected() { c.player.disconnect("") }
func (c *clientPlaySessionHandler) activated()    {}
func (c *clientPlaySessionHandler) deactivated()  {}

var _ sessionHandler = (*clientPlaySessionHandler)(nil)
