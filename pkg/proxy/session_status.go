package proxy

import (
	"context"
	"encoding/json"

	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/util/chat"
	"go.minekube.com/common/minecraft/color"
)

// statusSessionHandler answers the server-list ping: a JSON status blob
// followed by an echoed ping payload (§4.3, §8 S1).
type statusSessionHandler struct {
	conn *minecraftConn
}

func newStatusSessionHandler(conn *minecraftConn) *statusSessionHandler {
	return &statusSessionHandler{conn: conn}
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type statusPlayerSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type statusPlayers struct {
	Max    int                  `json:"max"`
	Online int                  `json:"online"`
	Sample []statusPlayerSample `json:"sample"`
}

type statusResponseJSON struct {
	Version     statusVersion   `json:"version"`
	Players     statusPlayers   `json:"players"`
	Description json.RawMessage `json:"description"`
}

func (h *statusSessionHandler) handlePacket(_ context.Context, pc *proto.PacketContext) {
	switch p := pc.Packet.(type) {
	case *packet.StatusRequest:
		h.respondStatus()
	case *packet.StatusPing:
		_ = h.conn.WritePacket(proto.StatusPong, &packet.StatusPong{Payload: p.Payload})
	}
}

func (h *statusSessionHandler) respondStatus() {
	cfg := h.conn.config()
	registry := h.conn.proxy.registry

	registry.mu.Lock()
	online := len(registry.byOnline)
	sample := make([]statusPlayerSample, 0, online)
	hidden := make(map[string]bool, len(cfg.HiddenOps))
	for _, name := range cfg.HiddenOps {
		hidden[name] = true
	}
	for _, e := range registry.byOnline {
		if hidden[e.username] {
			continue
		}
		sample = append(sample, statusPlayerSample{Name: e.username, ID: e.onlineUUID.String()})
	}
	registry.mu.Unlock()

	motd := chat.JSON(chat.Text("A Minecraft Server", color.White))
	body := statusResponseJSON{
		Version:     statusVersion{Name: "mcproxy", Protocol: int32(h.conn.Protocol())},
		Players:     statusPlayers{Max: cfg.MaxPlayers, Online: online, Sample: sample},
		Description: json.RawMessage(motd),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return
	}
	_ = h.conn.WritePacket(proto.StatusResponse, &packet.StatusResponse{Status: string(raw)})
}

func (h *statusSessionHandler) handleUnknownPacket(*proto.PacketContext) { _ = h.conn.close() }
func (h *statusSessionHandler) disconnected()                           {}
func (h *statusSessionHandler) activated()                              {}
func (h *statusSessionHandler) deactivated()                            {}

var _ sessionHandler = (*statusSessionHandler)(nil)
