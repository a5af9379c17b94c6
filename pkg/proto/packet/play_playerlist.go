package packet

import (
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/google/uuid"
)

// PlayerListItemAction is the action code carried by the 1.8+
// PLAYER_LIST_ITEM packet (§4.4).
type PlayerListItemAction int32

const (
	PlayerListAddPlayer         PlayerListItemAction = 0
	PlayerListUpdateGameMode    PlayerListItemAction = 1
	PlayerListUpdateLatency     PlayerListItemAction = 2
	PlayerListUpdateDisplayName PlayerListItemAction = 3
	PlayerListRemovePlayer      PlayerListItemAction = 4
)

// PlayerListItemProperty is one entry of a game profile's property blob
// (e.g. "textures").
type PlayerListItemProperty struct {
	Name      string
	Value     string
	Signed    bool
	Signature string
}

// PlayerListItemEntry is one per-player entry of a PlayerListItem packet.
// Which fields are meaningful depends on the packet's Action.
type PlayerListItemEntry struct {
	UUID        uuid.UUID // keyed by the backend's offline UUID on decode
	Name        string    // only on PlayerListAddPlayer
	Properties  []PlayerListItemProperty
	GameMode    int32
	Ping        int32
	DisplayName string // raw JSON, empty if absent
	HasDisplay  bool
}

// PlayerListItem only models the 1.8+ wire shape; pre-1.8 PLAYER_LIST_ITEM
// (bare name/online/ping) is forwarded raw by the session handler without
// going through this struct (see DESIGN.md).
type PlayerListItem struct {
	Action  PlayerListItemAction
	Entries []PlayerListItemEntry
}

func (p *PlayerListItem) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	action, err := b.ReadVarInt()
	if err != nil {
		return err
	}
	p.Action = PlayerListItemAction(action)
	count, err := b.ReadVarInt()
	if err != nil {
		return err
	}
	p.Entries = make([]PlayerListItemEntry, count)
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.UUID, err = b.ReadUUID(); err != nil {
			return err
		}
		switch p.Action {
		case PlayerListAddPlayer:
			if e.Name, err = b.ReadString(); err != nil {
				return err
			}
			propCount, err := b.ReadVarInt()
			if err != nil {
				return err
			}
			e.Properties = make([]PlayerListItemProperty, propCount)
			for j := range e.Properties {
				prop := &e.Properties[j]
				if prop.Name, err = b.ReadString(); err != nil {
					return err
				}
				if prop.Value, err = b.ReadString(); err != nil {
					return err
				}
				if prop.Signed, err = b.ReadBool(); err != nil {
					return err
				}
				if prop.Signed {
					if prop.Signature, err = b.ReadString(); err != nil {
						return err
					}
				}
			}
			if e.GameMode, err = b.ReadVarInt(); err != nil {
				return err
			}
			if e.Ping, err = b.ReadVarInt(); err != nil {
				return err
			}
			if e.HasDisplay, err = b.ReadBool(); err != nil {
				return err
			}
			if e.HasDisplay {
				if e.DisplayName, err = b.ReadJSON(); err != nil {
					return err
				}
			}
		case PlayerListUpdateGameMode:
			if e.GameMode, err = b.ReadVarInt(); err != nil {
				return err
			}
		case PlayerListUpdateLatency:
			if e.Ping, err = b.ReadVarInt(); err != nil {
				return err
			}
		case PlayerListUpdateDisplayName:
			if e.HasDisplay, err = b.ReadBool(); err != nil {
				return err
			}
			if e.HasDisplay {
				if e.DisplayName, err = b.ReadJSON(); err != nil {
					return err
				}
			}
		case PlayerListRemovePlayer:
			// no further fields
		}
	}
	return nil
}

func (p *PlayerListItem) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteVarInt(int32(p.Action)); err != nil {
		return err
	}
	if err := b.WriteVarInt(int32(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := b.WriteUUID(e.UUID); err != nil {
			return err
		}
		switch p.Action {
		case PlayerListAddPlayer:
			if err := b.WriteString(e.Name); err != nil {
				return err
			}
			if err := b.WriteVarInt(int32(len(e.Properties))); err != nil {
				return err
			}
			for _, prop := range e.Properties {
				if err := b.WriteString(prop.Name); err != nil {
					return err
				}
				if err := b.WriteString(prop.Value); err != nil {
					return err
				}
				if err := b.WriteBool(prop.Signed); err != nil {
					return err
				}
				if prop.Signed {
					if err := b.WriteString(prop.Signature); err != nil {
						return err
					}
				}
			}
			if err := b.WriteVarInt(e.GameMode); err != nil {
				return err
			}
			if err := b.WriteVarInt(e.Ping); err != nil {
				return err
			}
			if err := b.WriteBool(e.HasDisplay); err != nil {
				return err
			}
			if e.HasDisplay {
				if err := b.WriteJSON(e.DisplayName); err != nil {
					return err
				}
			}
		case PlayerListUpdateGameMode:
			if err := b.WriteVarInt(e.GameMode); err != nil {
				return err
			}
		case PlayerListUpdateLatency:
			if err := b.WriteVarInt(e.Ping); err != nil {
				return err
			}
		case PlayerListUpdateDisplayName:
			if err := b.WriteBool(e.HasDisplay); err != nil {
				return err
			}
			if e.HasDisplay {
				if err := b.WriteJSON(e.DisplayName); err != nil {
					return err
				}
			}
		case PlayerListRemovePlayer:
		}
	}
	return nil
}
