package packet

import "github.com/gatekit/mcproxy/pkg/proto"

// OpenWindow records the window id and non-inventory slot count (§4.4,
// §3 "Window").
type OpenWindow struct {
	WindowID    uint8
	WindowType  string
	Title       string // raw JSON or legacy text depending on era
	SlotCount   uint8
	EntityID    int32 // only present for WindowType == "EntityHorse"
}

func (p *OpenWindow) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteUByte(p.WindowID); err != nil {
		return err
	}
	if err := b.WriteString(p.WindowType); err != nil {
		return err
	}
	if err := b.WriteString(p.Title); err != nil {
		return err
	}
	return b.WriteUByte(p.SlotCount)
}

func (p *OpenWindow) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.WindowID, err = b.ReadUByte(); err != nil {
		return err
	}
	if p.WindowType, err = b.ReadString(); err != nil {
		return err
	}
	if p.Title, err = b.ReadString(); err != nil {
		return err
	}
	p.SlotCount, err = b.ReadUByte()
	return err
}

// SetSlot is the sole authoritative channel for the inventory mirror
// (§4.4 SET_SLOT, §8 invariant 6).
type SetSlot struct {
	WindowID uint8
	Slot     int16
	Item     proto.Slot
}

func (p *SetSlot) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteUByte(p.WindowID); err != nil {
		return err
	}
	if err := b.WriteShort(p.Slot); err != nil {
		return err
	}
	return b.WriteSlot(p.Item)
}

func (p *SetSlot) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.WindowID, err = b.ReadUByte(); err != nil {
		return err
	}
	if p.Slot, err = b.ReadShort(); err != nil {
		return err
	}
	p.Item, err = b.ReadSlot()
	return err
}

// WindowItems is parsed but never authoritative for the inventory
// mirror (§4.4, §4.6); it's always forwarded raw.
type WindowItems struct {
	WindowID uint8
	Items    []proto.Slot
}

func (p *WindowItems) Decode(_ *proto.PacketContext, b *proto.Buffer) error {
	var err error
	if p.WindowID, err = b.ReadUByte(); err != nil {
		return err
	}
	count, err := b.ReadShort()
	if err != nil {
		return err
	}
	p.Items = make([]proto.Slot, count)
	for i := range p.Items {
		if p.Items[i], err = b.ReadSlot(); err != nil {
			return err
		}
	}
	return nil
}

func (p *WindowItems) Encode(_ *proto.PacketContext, b *proto.Buffer) error {
	if err := b.WriteUByte(p.WindowID); err != nil {
		return err
	}
	if err := b.WriteShort(int16(len(p.Items))); err != nil {
		return err
	}
	for _, s := range p.Items {
		if err := b.WriteSlot(s); err != nil {
			return err
		}
	}
	return nil
}
