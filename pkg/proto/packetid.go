package proto

// NeverMatches is the sentinel packet id a packet resolves to in a
// protocol version where it does not exist.
const NeverMatches int32 = -1

// PacketName is a symbolic packet identity, stable across protocol
// versions even though its numeric id is not.
type PacketName string

// Names referenced by §4.2 and the parse pipeline of §4.4.
const (
	KeepAlive            PacketName = "KEEP_ALIVE"
	JoinGame             PacketName = "JOIN_GAME"
	ChatMessage          PacketName = "CHAT_MESSAGE"
	SpawnPlayer          PacketName = "SPAWN_PLAYER"
	SpawnObject          PacketName = "SPAWN_OBJECT"
	SpawnMob             PacketName = "SPAWN_MOB"
	EntityRelativeMove   PacketName = "ENTITY_RELATIVE_MOVE"
	EntityTeleport       PacketName = "ENTITY_TELEPORT"
	AttachEntity         PacketName = "ATTACH_ENTITY"
	DestroyEntities      PacketName = "DESTROY_ENTITIES"
	ChangeGameState      PacketName = "CHANGE_GAME_STATE"
	OpenWindow           PacketName = "OPEN_WINDOW"
	SetSlot              PacketName = "SET_SLOT"
	WindowItems          PacketName = "WINDOW_ITEMS"
	EntityProperties     PacketName = "ENTITY_PROPERTIES"
	PlayerListItem       PacketName = "PLAYER_LIST_ITEM"
	Disconnect           PacketName = "DISCONNECT"
	PlayerPosLook        PacketName = "PLAYER_POSLOOK"
	UseBed               PacketName = "USE_BED"
	Respawn              PacketName = "RESPAWN"
	SpawnPosition        PacketName = "SPAWN_POSITION"
	TimeUpdate           PacketName = "TIME_UPDATE"
	MapChunkBulk         PacketName = "MAP_CHUNK_BULK"
	SetPassengers        PacketName = "SET_PASSENGERS"
	PlayerDigging        PacketName = "PLAYER_DIGGING"
	PlayerBlockPlacement PacketName = "PLAYER_BLOCK_PLACEMENT"
)

// versionRange is a half-open [From, To) protocol window; To == 0 means unbounded.
type versionRange struct {
	ID   int32
	From Protocol
	To   Protocol // exclusive, 0 == no upper bound
}

func (v versionRange) matches(p Protocol) bool {
	if p < v.From {
		return false
	}
	if v.To != 0 && p >= v.To {
		return false
	}
	return true
}

// idTable is a symbolic-name -> version-ranged-id table for one direction.
type idTable map[PacketName][]versionRange

func (t idTable) resolve(name PacketName, p Protocol) int32 {
	ranges, ok := t[name]
	if !ok {
		return NeverMatches
	}
	for _, r := range ranges {
		if r.matches(p) {
			return r.ID
		}
	}
	return NeverMatches
}

// PacketIDMap resolves symbolic packet names to the numeric id used on
// the wire for a given direction and protocol version (§4.2). Tables are
// built once at init and never mutated.
type PacketIDMap struct {
	clientBound idTable
	serverBound idTable
}

// ClientBound returns the numeric packet id for name under protocol p in
// the client-bound direction, or NeverMatches.
func (m *PacketIDMap) ClientBound(name PacketName, p Protocol) int32 {
	return m.clientBound.resolve(name, p)
}

// ServerBound returns the numeric packet id for name under protocol p in
// the server-bound direction, or NeverMatches.
func (m *PacketIDMap) ServerBound(name PacketName, p Protocol) int32 {
	return m.serverBound.resolve(name, p)
}

// NameForClientBound reverse-resolves a numeric client-bound packet id
// back to its symbolic name under protocol p. Used by the decoder to pick
// which packet struct to decode into.
func (m *PacketIDMap) NameForClientBound(id int32, p Protocol) (PacketName, bool) {
	return reverseResolve(m.clientBound, id, p)
}

func (m *PacketIDMap) NameForServerBound(id int32, p Protocol) (PacketName, bool) {
	return reverseResolve(m.serverBound, id, p)
}

func reverseResolve(t idTable, id int32, p Protocol) (PacketName, bool) {
	for name, ranges := range t {
		for _, r := range ranges {
			if r.ID == id && r.matches(p) {
				return name, true
			}
		}
	}
	return "", false
}

// Play is the packet-id map for the PLAY state. Ids change only at two
// thresholds: 1.8 (47) and 1.9 (107). 1.7.x (<=5) resolves through the
// pre-1.8 ranges and 1.9.1-1.9.4 (108-110) through the 1.9 ranges.
//
// id assignments below follow the community-documented wire protocol for
// each era (wiki.vg "Pre-release protocol" / "Protocol version numbers"
// history); packets absent from an era simply have no versionRange for
// it and resolve to NeverMatches.
var Play = &PacketIDMap{
	clientBound: idTable{
		KeepAlive: {
			{ID: 0x00, From: 0, To: Minecraft_1_8},
			{ID: 0x00, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x1F, From: Minecraft_1_9},
		},
		JoinGame: {
			{ID: 0x01, From: 0, To: Minecraft_1_8},
			{ID: 0x01, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x23, From: Minecraft_1_9},
		},
		ChatMessage: {
			{ID: 0x02, From: 0, To: Minecraft_1_8},
			{ID: 0x02, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x0F, From: Minecraft_1_9},
		},
		TimeUpdate: {
			{ID: 0x03, From: 0, To: Minecraft_1_8},
			{ID: 0x03, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x44, From: Minecraft_1_9},
		},
		EntityEquipment: {
			{ID: 0x04, From: 0, To: Minecraft_1_8},
			{ID: 0x04, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x3C, From: Minecraft_1_9},
		},
		SpawnPosition: {
			{ID: 0x05, From: 0, To: Minecraft_1_8},
			{ID: 0x05, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x43, From: Minecraft_1_9},
		},
		UpdateHealth: {
			{ID: 0x06, From: 0, To: Minecraft_1_8},
			{ID: 0x06, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x3E, From: Minecraft_1_9},
		},
		Respawn: {
			{ID: 0x07, From: 0, To: Minecraft_1_8},
			{ID: 0x07, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x33, From: Minecraft_1_9},
		},
		PlayerPosLook: {
			{ID: 0x08, From: 0, To: Minecraft_1_8},
			{ID: 0x08, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x2E, From: Minecraft_1_9},
		},
		UseBed: {
			{ID: 0x0A, From: 0, To: Minecraft_1_8},
			{ID: 0x0A, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x30, From: Minecraft_1_9},
		},
		SpawnPlayer: {
			{ID: 0x0C, From: 0, To: Minecraft_1_8},
			{ID: 0x0C, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x05, From: Minecraft_1_9},
		},
		AttachEntity: {
			{ID: 0x1B, From: 0, To: Minecraft_1_8},
			{ID: 0x1B, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x40, From: Minecraft_1_9},
		},
		SpawnMob: {
			{ID: 0x0F, From: 0, To: Minecraft_1_8},
			{ID: 0x0F, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x03, From: Minecraft_1_9},
		},
		SpawnObject: {
			{ID: 0x0E, From: 0, To: Minecraft_1_8},
			{ID: 0x0E, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x00, From: Minecraft_1_9},
		},
		EntityRelativeMove: {
			{ID: 0x15, From: 0, To: Minecraft_1_8},
			{ID: 0x15, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x25, From: Minecraft_1_9},
		},
		EntityTeleport: {
			{ID: 0x18, From: 0, To: Minecraft_1_8},
			{ID: 0x18, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x28, From: Minecraft_1_9},
		},
		EntityProperties: {
			{ID: 0x20, From: 0, To: Minecraft_1_8},
			{ID: 0x20, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x4B, From: Minecraft_1_9},
		},
		ChangeGameState: {
			{ID: 0x2B, From: 0, To: Minecraft_1_8},
			{ID: 0x2B, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x1E, From: Minecraft_1_9},
		},
		OpenWindow: {
			{ID: 0x2D, From: 0, To: Minecraft_1_8},
			{ID: 0x2D, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x13, From: Minecraft_1_9},
		},
		SetSlot: {
			{ID: 0x2F, From: 0, To: Minecraft_1_8},
			{ID: 0x2F, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x16, From: Minecraft_1_9},
		},
		WindowItems: {
			{ID: 0x30, From: 0, To: Minecraft_1_8},
			{ID: 0x30, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x14, From: Minecraft_1_9},
		},
		DestroyEntities: {
			{ID: 0x13, From: 0, To: Minecraft_1_8},
			{ID: 0x13, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x38, From: Minecraft_1_9},
		},
		SetPassengers: {
			{ID: 0x4A, From: Minecraft_1_9},
		},
		PlayerListItem: {
			{ID: 0x38, From: 0, To: Minecraft_1_8},
			{ID: 0x38, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x2D, From: Minecraft_1_9},
		},
		Disconnect: {
			{ID: 0x40, From: 0, To: Minecraft_1_8},
			{ID: 0x40, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x1A, From: Minecraft_1_9},
		},
		MapChunkBulk: {
			{ID: 0x26, From: Minecraft_1_8, To: Minecraft_1_9}, // absent pre-1.8 and removed in 1.9
		},
	},
	serverBound: idTable{
		KeepAlive: {
			{ID: 0x00, From: 0, To: Minecraft_1_8},
			{ID: 0x00, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x0B, From: Minecraft_1_9},
		},
		ChatMessage: {
			{ID: 0x01, From: 0, To: Minecraft_1_8},
			{ID: 0x01, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x02, From: Minecraft_1_9},
		},
		PlayerDigging: {
			{ID: 0x07, From: 0, To: Minecraft_1_8},
			{ID: 0x07, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x13, From: Minecraft_1_9},
		},
		PlayerBlockPlacement: {
			{ID: 0x08, From: 0, To: Minecraft_1_8},
			{ID: 0x08, From: Minecraft_1_8, To: Minecraft_1_9},
			{ID: 0x1C, From: Minecraft_1_9},
		},
	},
}

// EntityEquipment and UpdateHealth round out the Play table even though
// no §4.4 handler parses them; both still need version-correct ids so
// unknown-packet forwarding (§3 invariants) can tell them apart from a
// genuinely unrecognized id.
const (
	EntityEquipment PacketName = "ENTITY_EQUIPMENT"
	UpdateHealth    PacketName = "UPDATE_HEALTH"
)
