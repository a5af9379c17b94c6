package proxy

import (
	"context"
	"encoding/json"

	"github.com/gatekit/mcproxy/pkg/event"
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/util/chat"
	"go.minekube.com/common/minecraft/color"
)

// serverPlaySessionHandler parses the backend's client-bound PLAY stream
// on the player's behalf: it consults and updates the world model and
// registry, calls out to the plugin bus, and forwards every packet - raw
// where unmodified, re-encoded where rewritten - to the client (§4.4).
type serverPlaySessionHandler struct {
	player  *connectedPlayer
	backend *minecraftConn
}

func newServerPlaySessionHandler(player *connectedPlayer, backend *minecraftConn) *serverPlaySessionHandler {
	return &serverPlaySessionHandler{player: player, backend: backend}
}

func (h *serverPlaySessionHandler) handlePacket(_ context.Context, pc *proto.PacketContext) {
	client := h.player.client

	switch p := pc.Packet.(type) {
	case *packet.KeepAlive:
		// Answered directly on the backend leg; never shown to the client.
		_ = h.backend.WritePacket(proto.KeepAlive, &packet.KeepAlive{RandomID: p.RandomID})
		return

	case *packet.Chat:
		h.handleChat(p)
		return

	case *packet.JoinGame:
		h.player.setServerEID(p.EntityID)
		h.player.setGameState(p.Gamemode, p.Dimension)
		h.player.world.clear()

	case *packet.TimeUpdate:
		h.player.world.setClock(p.WorldAge, p.TimeOfDay)

	case *packet.ChangeGameState:
		if p.Reason == packet.ChangeGameStateReasonGameMode {
			_, dimension := h.player.gameState()
			h.player.setGameState(byte(p.Value), dimension)
		}

	case *packet.SpawnPosition:
		pos := positionToBlockPos(p.Location)
		h.player.world.setSpawnPos(pos)
		h.fireSimple(event.PlayerSpawned, pos)

	case *packet.Respawn:
		h.player.setGameState(p.Gamemode, p.Dimension)
		// eids are not guaranteed stable across a dimension change (§9).
		h.player.world.clear()

	case *packet.PlayerPosLook:
		h.player.setLastPos(blockPos{X: p.X, Y: p.Y, Z: p.Z})

	case *packet.UseBed:
		if p.EntityID == h.player.serverEID() {
			pos := positionToBlockPos(p.Location)
			h.player.world.setBedPos(pos)
			h.fireSimple(event.PlayerUseBed, pos)
		}

	case *packet.SpawnPlayer:
		h.handleSpawnPlayer(p)
		return

	case *packet.SpawnObject:
		h.player.world.addEntity(p.EntityID, entityKindObject, objectTypeNames[p.Type], blockPos{X: p.X, Y: p.Y, Z: p.Z})

	case *packet.SpawnMob:
		h.player.world.addEntity(p.EntityID, entityKindMob, mobTypeNames[p.Type], blockPos{X: p.X, Y: p.Y, Z: p.Z})

	case *packet.EntityRelativeMove:
		h.player.world.moveRelative(p.EntityID, p.DX, p.DY, p.DZ)

	case *packet.EntityTeleport:
		h.player.world.teleport(p.EntityID, blockPos{X: p.X, Y: p.Y, Z: p.Z})

	case *packet.AttachEntity:
		h.handleAttach(p.EntityID, p.VehicleID)

	case *packet.SetPassengers:
		h.handleSetPassengers(p.EntityID, p.Passengers)

	case *packet.DestroyEntities:
		for _, id := range p.EntityIDs {
			h.player.world.remove(id)
		}

	case *packet.OpenWindow:
		h.player.world.setOpenWindow(p.WindowID, p.SlotCount)

	case *packet.SetSlot:
		h.handleSetSlot(p)

	case *packet.WindowItems:
		// SET_SLOT is the sole authoritative channel (§4.4, §8 invariant 6).

	case *packet.PlayerListItem:
		h.handlePlayerListItem(p)
		return

	case *packet.Disconnect:
		if !client.Closed() {
			_ = client.closeWith(proto.Disconnect, &packet.Disconnect{Reason: p.Reason})
		}
		h.player.disconnect("")
		return
	}

	payload := append([]byte(nil), pc.Payload...)
	h.player.outbound.push(func() { _ = client.Write(payload) })
}

func positionToBlockPos(pos proto.Position) blockPos {
	return blockPos{X: float64(pos.X), Y: float64(pos.Y), Z: float64(pos.Z)}
}

// fireSimple notifies a non-vetoable lifecycle event; the verdict is not
// consulted since §4.4 describes these as unconditionally forwarded.
func (h *serverPlaySessionHandler) fireSimple(name string, pos blockPos) {
	h.player.proxy.event.FirePayload(name, map[string]interface{}{
		"player": h.player.username,
		"x":      pos.X,
		"y":      pos.Y,
		"z":      pos.Z,
	})
}

// handleChat applies the player.chatbox verdict (§4.4 CHAT_MESSAGE, §8 S2/S3).
func (h *serverPlaySessionHandler) handleChat(p *packet.Chat) {
	verdict := h.player.proxy.event.FirePayload(event.PlayerChatbox, map[string]interface{}{
		"player": h.player.username,
		"json":   p.Message,
	})
	switch {
	case verdict.IsDrop():
		return
	case verdict.IsReplaceJSON():
		h.reencodeChat(encodeJSONObject(verdict.JSON()), p.Position)
	case verdict.IsReplaceText():
		h.reencodeChat(chat.JSON(chat.Text(verdict.Text(), color.White)), p.Position)
	default:
		client := h.player.client
		h.player.outbound.push(func() { _ = client.WritePacket(proto.ChatMessage, p) })
	}
}

func (h *serverPlaySessionHandler) reencodeChat(json string, pos packet.ChatPosition) {
	client := h.player.client
	h.player.outbound.push(func() {
		_ = client.WritePacket(proto.ChatMessage, &packet.Chat{Message: json, Position: pos})
	})
}

// handleSpawnPlayer rewrites the backend's offline UUID to the client-facing
// online UUID before forwarding (§4.4 SPAWN_PLAYER, §8 invariant 5). An
// unresolved UUID is still forwarded, unrewritten (§8 invariant 5).
func (h *serverPlaySessionHandler) handleSpawnPlayer(p *packet.SpawnPlayer) {
	h.player.world.addEntity(p.EntityID, entityKindPlayer, "", blockPos{X: p.X, Y: p.Y, Z: p.Z})
	online, ok := h.player.proxy.registry.byOfflineUUID(p.PlayerUUID)
	if ok {
		p.PlayerUUID = online
	}
	client := h.player.client
	h.player.outbound.push(func() { _ = client.WritePacket(proto.SpawnPlayer, p) })
}

// handleAttach mirrors pre-1.9 ATTACH_ENTITY into mount/unmount bookkeeping
// (§4.4): VehicleID -1 or 0 is the detach sentinel on this packet.
func (h *serverPlaySessionHandler) handleAttach(rider, vehicle int32) {
	if vehicle == -1 || vehicle == 0 {
		if _, wasRiding := h.player.world.isRiding(rider); wasRiding {
			h.player.world.unmount(rider)
			if rider == h.player.serverEID() {
				h.player.proxy.event.FirePayload(event.PlayerUnmount, map[string]interface{}{"player": h.player.username})
			}
		}
		return
	}
	h.player.world.mount(rider, vehicle)
	if rider == h.player.serverEID() {
		h.player.proxy.event.FirePayload(event.PlayerMount, map[string]interface{}{"player": h.player.username, "vehicle": vehicle})
	}
}

// handleSetPassengers mirrors the 1.9+ SET_PASSENGERS equivalent: every
// rider not in the new list is unmounted, every new rider mounted.
func (h *serverPlaySessionHandler) handleSetPassengers(vehicle int32, passengers []int32) {
	current := make(map[int32]bool, len(passengers))
	for _, rider := range passengers {
		current[rider] = true
		if v, ok := h.player.world.isRiding(rider); !ok || v != vehicle {
			h.player.world.mount(rider, vehicle)
			if rider == h.player.serverEID() {
				h.player.proxy.event.FirePayload(event.PlayerMount, map[string]interface{}{"player": h.player.username, "vehicle": vehicle})
			}
		}
	}
	for _, rider := range h.player.world.ridersOf(vehicle) {
		if current[rider] {
			continue
		}
		h.player.world.unmount(rider)
		if rider == h.player.serverEID() {
			h.player.proxy.event.FirePayload(event.PlayerUnmount, map[string]interface{}{"player": h.player.username})
		}
	}
}

// handleSetSlot applies SET_SLOT's inventory-authority rule (§4.4, §8
// invariant 6): window 0 mirrors directly by slot id; the currently open
// non-zero window remaps its player-inventory tail into the canonical
// 9..44 slot range.
func (h *serverPlaySessionHandler) handleSetSlot(p *packet.SetSlot) {
	if p.WindowID == windowZero {
		h.player.world.setInventorySlot(p.Slot, p.Item)
		return
	}
	openID, nonInventoryCount := h.player.world.openWindow()
	if p.WindowID == openID && int(p.Slot) >= int(nonInventoryCount) {
		slot := p.Slot - int16(nonInventoryCount) + 9
		h.player.world.setInventorySlot(slot, p.Item)
	}
}

// handlePlayerListItem resolves each entry's offline UUID to the owning
// client's online UUID, synthesizing replacement entries and dropping
// whatever doesn't resolve (§4.4 PLAYER_LIST_ITEM, §8 invariant 5).
func (h *serverPlaySessionHandler) handlePlayerListItem(p *packet.PlayerListItem) {
	out := make([]packet.PlayerListItemEntry, 0, len(p.Entries))
	for _, e := range p.Entries {
		online, ok := h.player.proxy.registry.byOfflineUUID(e.UUID)
		if !ok {
			continue
		}
		e.UUID = online
		if p.Action == packet.PlayerListAddPlayer {
			if owner, ok := h.player.proxy.registry.byOnlineUUID(online); ok {
				e.Properties = owner.properties
			}
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return
	}
	client := h.player.client
	h.player.outbound.push(func() {
		_ = client.WritePacket(proto.PlayerListItem, &packet.PlayerListItem{Action: p.Action, Entries: out})
	})
}

func (h *serverPlaySessionHandler) handleUnknownPacket(pc *proto.PacketContext) {
	client := h.player.client
	payload := append([]byte(nil), pc.Payload...)
	h.player.outbound.push(func() { _ = client.Write(payload) })
}

func (h *serverPlaySessionHandler) disconnected() {
	h.player.disconnect("")
}
func (h *serverPlaySessionHandler) activated()   {}
func (h *serverPlaySessionHandler) deactivated() {}

var _ sessionHandler = (*serverPlaySessionHandler)(nil)

// encodeJSONObject marshals a plugin-supplied replacement chat payload; an
// encoding failure (non-JSON-able values) falls back to an empty component
// rather than propagating an error into the read loop.
func encodeJSONObject(v map[string]interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return `{"text":""}`
	}
	return string(raw)
}
