package proxy

import (
	"sync"

	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/util/chat"
	"github.com/google/uuid"
	"go.minekube.com/common/minecraft/color"
)

// connectedPlayer is one logged-in client: its client-facing connection,
// the single backend connection the session dials on its behalf, and the
// per-client world model the server session's read loop maintains (§2,
// §4.6). This module proxies to exactly one backend per player - there is
// no cross-server handoff - so unlike a multi-backend proxy there is no
// separate "server connection that may change" indirection.
type connectedPlayer struct {
	proxy *Proxy

	client  *minecraftConn
	backend *minecraftConn

	username    string
	onlineUUID  uuid.UUID
	offlineUUID uuid.UUID

	mu              sync.RWMutex
	servereid       int32
	knownDisconnect bool
	gamemode        byte
	dimension       int32
	lastPos         blockPos

	// properties is the Mojang game-profile property blob (textures, etc.)
	// returned by the session-server check at login, empty in offline
	// mode. Used to synthesize PLAYER_LIST_ITEM add-player entries for
	// this player on other clients' tab lists (§4.4 PLAYER_LIST_ITEM).
	properties []packet.PlayerListItemProperty

	world *worldModel

	settingsLocale string

	// outbound decouples the server session's read loop from the client
	// socket's write rate (§5 backpressure); every client-bound packet the
	// server-play handler forwards is pushed here rather than written
	// inline. Drained by a goroutine started in newConnectedPlayer.
	outbound *outboundQueue
}

func newConnectedPlayer(proxy *Proxy, client *minecraftConn, username string, online, offline uuid.UUID, properties []packet.PlayerListItemProperty) *connectedPlayer {
	p := &connectedPlayer{
		proxy:       proxy,
		client:      client,
		username:    username,
		onlineUUID:  online,
		offlineUUID: offline,
		properties:  properties,
		world:       newWorldModel(),
		outbound:    newOutboundQueue(),
	}
	go p.outbound.drain()
	return p
}

func (p *connectedPlayer) String() string { return p.username }

func (p *connectedPlayer) Protocol() proto.Protocol { return p.client.Protocol() }

func (p *connectedPlayer) setServerEID(eid int32) {
	p.mu.Lock()
	p.servereid = eid
	p.mu.Unlock()
	p.proxy.registry.setServerEID(p.offlineUUID, eid)
}

func (p *connectedPlayer) serverEID() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.servereid
}

func (p *connectedPlayer) setGameState(gamemode byte, dimension int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gamemode = gamemode
	p.dimension = dimension
}

func (p *connectedPlayer) gameState() (gamemode byte, dimension int32) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gamemode, p.dimension
}

func (p *connectedPlayer) setLastPos(pos blockPos) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPos = pos
}

// jsonDisconnectReason wraps a plain string as the JSON chat object used
// for every user-visible disconnect. The red colour passed to chat.Text is
// not rendered: chat.JSON emits only the "text" key.
func jsonDisconnectReason(msg string) string {
	return chat.JSON(chat.Text(msg, color.Red))
}

// disconnect closes both legs of the session and fires DisconnectEvent.
// reason, if non-empty, is shown to the client as an uncoloured JSON chat
// object before the socket closes (§7).
func (p *connectedPlayer) disconnect(reason string) {
	p.mu.Lock()
	already := p.knownDisconnect
	p.knownDisconnect = true
	p.mu.Unlock()
	if already {
		return
	}
	p.outbound.close()
	if p.backend != nil {
		_ = p.backend.close()
	}
	if p.client != nil {
		if reason != "" && !p.client.Closed() {
			_ = p.client.closeWith(proto.Disconnect, &packet.Disconnect{Reason: jsonDisconnectReason(reason)})
		} else {
			_ = p.client.close()
		}
	}
	p.proxy.registry.remove(p.onlineUUID)
	p.proxy.event.Fire(&DisconnectEvent{Player: p})
}
