package proxy

import "sync"

// entityKind distinguishes the three spawn packet families so DESTROY_ENTITIES
// and lookups don't need to re-derive it (§4.6).
type entityKind uint8

const (
	entityKindPlayer entityKind = iota
	entityKindObject
	entityKindMob
)

// blockPos is a position in canonical block units, the representation
// every spawn/move/teleport packet is normalized into regardless of era
// (§3 Entity, §9).
type blockPos struct {
	X, Y, Z float64
}

// entity is one tracked entity's last-known state (§4.6, §8 invariant 7).
type entity struct {
	Kind     entityKind
	TypeName string // resolved via mobTypeNames/objectTypeNames, "" if unknown
	Pos      blockPos
}

// objectTypeNames/mobTypeNames are the static id -> name tables §4.6 calls
// for, covering the type codes carried by SPAWN_OBJECT/SPAWN_MOB in the
// 1.7-1.9 era this module speaks. Entries absent here resolve to "".
var objectTypeNames = map[int8]string{
	1:  "Boat",
	2:  "ItemStack",
	10: "Minecart",
	50: "PrimedTnt",
	51: "EnderCrystal",
	60: "Arrow",
	61: "Snowball",
	62: "Egg",
	65: "FireballGhast",
	66: "FireballFireCharge",
	77: "FishingFloat",
	90: "EyeOfEnderSignal",
	91: "PotionSplash",
}

var mobTypeNames = map[int32]string{
	50: "Creeper",
	51: "Skeleton",
	52: "Spider",
	54: "Zombie",
	55: "Slime",
	56: "Ghast",
	57: "ZombiePigman",
	58: "Enderman",
	90: "Pig",
	91: "Sheep",
	92: "Cow",
	93: "Chicken",
	95: "Wolf",
	98: "Ocelot",
	120: "VillagerIronGolem",
}

// windowZero is the window id the inventory mirror's authority applies to
// (§4.4 SET_SLOT, §8 invariant 6). For the currently open window, only
// the player-inventory slots at its tail are mirrored (shifted into the
// window-0 numbering); SET_SLOT for any other window id is not mirrored.
const windowZero = 0

// worldModel is the per-client mirror of backend world state the server
// session's read loop maintains and every other reader (the plugin bus,
// §5) consults; every accessor takes mu, and readers may see state that
// lags the backend by whatever packets are still in flight.
type worldModel struct {
	mu sync.RWMutex

	entities map[int32]*entity

	inventory map[int16]interface{} // slot -> proto.Slot, stored boxed as interface{}

	openWindowID  uint8
	openSlotCount uint8

	spawnPos  blockPos
	bedPos    blockPos
	hasBed    bool

	worldAge, timeOfDay int64

	ridingVehicle map[int32]int32   // rider eid -> vehicle eid
	rodeBy        map[int32][]int32 // vehicle eid -> rider eids
}

func newWorldModel() *worldModel {
	return &worldModel{
		entities:      make(map[int32]*entity),
		inventory:     make(map[int16]interface{}),
		ridingVehicle: make(map[int32]int32),
		rodeBy:        make(map[int32][]int32),
	}
}

func (w *worldModel) addEntity(id int32, kind entityKind, typeName string, pos blockPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities[id] = &entity{Kind: kind, TypeName: typeName, Pos: pos}
}

func (w *worldModel) moveRelative(id int32, dx, dy, dz float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.Pos.X += dx
	e.Pos.Y += dy
	e.Pos.Z += dz
}

func (w *worldModel) teleport(id int32, pos blockPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.Pos = pos
}

func (w *worldModel) get(id int32) (entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	if !ok {
		return entity{}, false
	}
	return *e, true
}

func (w *worldModel) remove(id int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entities, id)
	delete(w.ridingVehicle, id)
	delete(w.rodeBy, id)
	for vehicle, riders := range w.rodeBy {
		filtered := riders[:0]
		for _, r := range riders {
			if r != id {
				filtered = append(filtered, r)
			}
		}
		w.rodeBy[vehicle] = filtered
	}
}

// clear drops every tracked entity (§9 design note: recommended on a
// dimension change, since eids are not guaranteed stable across respawn).
func (w *worldModel) clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities = make(map[int32]*entity)
	w.ridingVehicle = make(map[int32]int32)
	w.rodeBy = make(map[int32][]int32)
}

// setOpenWindow records the window a SET_SLOT's non-inventory-count math
// (§4.4 SET_SLOT) is relative to.
func (w *worldModel) setOpenWindow(windowID, slotCount uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openWindowID = windowID
	w.openSlotCount = slotCount
}

// openWindow returns the currently open window id and its non-inventory
// slot count.
func (w *worldModel) openWindow() (windowID, slotCount uint8) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.openWindowID, w.openSlotCount
}

func (w *worldModel) setInventorySlot(slot int16, item interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inventory[slot] = item
}

func (w *worldModel) inventorySlot(slot int16) (interface{}, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.inventory[slot]
	return v, ok
}

func (w *worldModel) setSpawnPos(pos blockPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.spawnPos = pos
}

func (w *worldModel) setBedPos(pos blockPos) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bedPos = pos
	w.hasBed = true
}

func (w *worldModel) setClock(age, timeOfDay int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.worldAge, w.timeOfDay = age, timeOfDay
}

// mount records rider as riding vehicle, setting both the forward and
// back-reference (§4.4 ATTACH_ENTITY/SET_PASSENGERS).
func (w *worldModel) mount(rider, vehicle int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ridingVehicle[rider] = vehicle
	w.rodeBy[vehicle] = append(w.rodeBy[vehicle], rider)
}

func (w *worldModel) unmount(rider int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	vehicle, ok := w.ridingVehicle[rider]
	if !ok {
		return
	}
	delete(w.ridingVehicle, rider)
	riders := w.rodeBy[vehicle]
	for i, r := range riders {
		if r == rider {
			w.rodeBy[vehicle] = append(riders[:i], riders[i+1:]...)
			break
		}
	}
}

func (w *worldModel) isRiding(rider int32) (vehicle int32, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	vehicle, ok = w.ridingVehicle[rider]
	return
}

// ridersOf returns a snapshot of vehicle's current riders, for diffing
// against a fresh SET_PASSENGERS list (§4.4).
func (w *worldModel) ridersOf(vehicle int32) []int32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]int32, len(w.rodeBy[vehicle]))
	copy(out, w.rodeBy[vehicle])
	return out
}
