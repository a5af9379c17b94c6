package proxy

import "github.com/gatekit/mcproxy/pkg/event"

// DisconnectEvent fires once a player's client session has fully torn down
// (teardown counterpart of player.connect).
type DisconnectEvent struct {
	Player *connectedPlayer
}

func (*DisconnectEvent) Name() string { return "proxy.disconnect" }

// CommandExecuteEvent fires when a client sends a chat message beginning
// with the configured command prefix, before it reaches any handler.
type CommandExecuteEvent struct {
	Player      *connectedPlayer
	CommandLine string
	allowed     bool
}

func (*CommandExecuteEvent) Name() string  { return "proxy.command_execute" }
func (e *CommandExecuteEvent) Allowed() bool { return e.allowed }
func (e *CommandExecuteEvent) SetAllowed(v bool) { e.allowed = v }

// PlayerConnectEvent fires once a client reaches PLAY, mirroring the
// player.connect name the plugin bus listens for (§6).
type PlayerConnectEvent struct {
	Player *connectedPlayer
}

func (*PlayerConnectEvent) Name() string { return event.PlayerConnect }
