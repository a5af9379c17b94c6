package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldModelEntityLifecycle(t *testing.T) {
	w := newWorldModel()
	w.addEntity(1, entityKindMob, "Zombie", blockPos{X: 1, Y: 2, Z: 3})

	e, ok := w.get(1)
	require.True(t, ok)
	assert.Equal(t, "Zombie", e.TypeName)
	assert.Equal(t, blockPos{X: 1, Y: 2, Z: 3}, e.Pos)

	w.moveRelative(1, 1, 0, -1)
	e, _ = w.get(1)
	assert.Equal(t, blockPos{X: 2, Y: 2, Z: 2}, e.Pos)

	w.teleport(1, blockPos{X: 100, Y: 64, Z: -50})
	e, _ = w.get(1)
	assert.Equal(t, blockPos{X: 100, Y: 64, Z: -50}, e.Pos)

	w.remove(1)
	_, ok = w.get(1)
	assert.False(t, ok)
}

func TestWorldModelMoveOnUnknownEntityIsNoop(t *testing.T) {
	w := newWorldModel()
	assert.NotPanics(t, func() { w.moveRelative(999, 1, 1, 1) })
	assert.NotPanics(t, func() { w.teleport(999, blockPos{}) })
}

func TestWorldModelClearResetsEverything(t *testing.T) {
	w := newWorldModel()
	w.addEntity(1, entityKindPlayer, "", blockPos{})
	w.mount(2, 1)

	w.clear()

	_, ok := w.get(1)
	assert.False(t, ok)
	_, ok = w.isRiding(2)
	assert.False(t, ok)
}

func TestWorldModelMountUnmount(t *testing.T) {
	w := newWorldModel()

	w.mount(10, 1) // rider 10 mounts vehicle 1
	w.mount(11, 1) // rider 11 also mounts vehicle 1

	vehicle, ok := w.isRiding(10)
	require.True(t, ok)
	assert.Equal(t, int32(1), vehicle)

	riders := w.ridersOf(1)
	assert.ElementsMatch(t, []int32{10, 11}, riders)

	w.unmount(10)
	_, ok = w.isRiding(10)
	assert.False(t, ok)
	assert.Equal(t, []int32{11}, w.ridersOf(1))
}

func TestWorldModelRemoveEntityDropsItFromVehicleRiderList(t *testing.T) {
	w := newWorldModel()
	w.mount(10, 1)
	w.mount(11, 1)

	w.remove(10) // rider 10's entity is destroyed outright, not just unmounted

	assert.Equal(t, []int32{11}, w.ridersOf(1))
	_, ok := w.isRiding(10)
	assert.False(t, ok)
}

func TestWorldModelInventoryMirror(t *testing.T) {
	w := newWorldModel()
	_, ok := w.inventorySlot(36)
	assert.False(t, ok)

	w.setInventorySlot(36, "diamond_sword")
	got, ok := w.inventorySlot(36)
	require.True(t, ok)
	assert.Equal(t, "diamond_sword", got)
}

func TestWorldModelOpenWindow(t *testing.T) {
	w := newWorldModel()
	w.setOpenWindow(1, 27)
	id, count := w.openWindow()
	assert.Equal(t, uint8(1), id)
	assert.Equal(t, uint8(27), count)
}

func TestWorldModelClock(t *testing.T) {
	w := newWorldModel()
	w.setClock(1000, 6000)
	assert.Equal(t, int64(1000), w.worldAge)
	assert.Equal(t, int64(6000), w.timeOfDay)
}
