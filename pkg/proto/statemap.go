package proto

import "github.com/gatekit/mcproxy/pkg/proto/state"

// MapForState returns the packet-id map governing s.
func MapForState(s *state.Registry) *PacketIDMap {
	switch s {
	case state.Handshake:
		return Handshake
	case state.Status:
		return Status
	case state.Login:
		return Login
	default:
		return Play
	}
}
