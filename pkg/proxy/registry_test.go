package proxy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := newRegistry()
	online := uuid.New()
	offline := uuid.New()
	p := &connectedPlayer{username: "Notch"}

	r.register(p, "Notch", online, offline)

	got, ok := r.byOnlineUUID(online)
	require.True(t, ok)
	assert.Same(t, p, got)

	gotOnline, ok := r.byOfflineUUID(offline)
	require.True(t, ok)
	assert.Equal(t, online, gotOnline)

	got, ok = r.byUsernameLookup("Notch")
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestRegistrySetServerEID(t *testing.T) {
	r := newRegistry()
	online, offline := uuid.New(), uuid.New()
	p := &connectedPlayer{username: "Notch"}
	r.register(p, "Notch", online, offline)

	r.setServerEID(offline, 42)
	got, ok := r.byServerEntityID(42)
	require.True(t, ok)
	assert.Same(t, p, got)

	// reassigning the EID (e.g. respawn) drops the old index entry.
	r.setServerEID(offline, 99)
	_, ok = r.byServerEntityID(42)
	assert.False(t, ok, "stale entity id must not still resolve after reassignment")
	got, ok = r.byServerEntityID(99)
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestRegistryRemoveDropsAllIndexes(t *testing.T) {
	r := newRegistry()
	online, offline := uuid.New(), uuid.New()
	p := &connectedPlayer{username: "Notch"}
	r.register(p, "Notch", online, offline)
	r.setServerEID(offline, 7)

	r.remove(online)

	_, ok := r.byOnlineUUID(online)
	assert.False(t, ok)
	_, ok = r.byOfflineUUID(offline)
	assert.False(t, ok)
	_, ok = r.byUsernameLookup("Notch")
	assert.False(t, ok)
	_, ok = r.byServerEntityID(7)
	assert.False(t, ok)
}

func TestRegistrySweepStale(t *testing.T) {
	r := newRegistry()

	onlineAlive, offlineAlive := uuid.New(), uuid.New()
	alive := &connectedPlayer{username: "Notch", client: &minecraftConn{}}
	r.register(alive, "Notch", onlineAlive, offlineAlive)

	onlineDead, offlineDead := uuid.New(), uuid.New()
	deadConn := &minecraftConn{}
	deadConn.closed.Store(true)
	dead := &connectedPlayer{username: "jeb_", client: deadConn}
	r.register(dead, "jeb_", onlineDead, offlineDead)

	stale := r.sweepStale()
	require.Len(t, stale, 1)
	assert.Same(t, dead, stale[0])

	_, ok := r.byOnlineUUID(onlineDead)
	assert.False(t, ok, "swept entries are removed from the registry")
	_, ok = r.byOnlineUUID(onlineAlive)
	assert.True(t, ok, "a session whose socket is still open must survive the sweep")
}

func TestRegistryAll(t *testing.T) {
	r := newRegistry()
	p1 := &connectedPlayer{username: "Notch"}
	p2 := &connectedPlayer{username: "jeb_"}
	r.register(p1, "Notch", uuid.New(), uuid.New())
	r.register(p2, "jeb_", uuid.New(), uuid.New())

	all := r.all()
	assert.Len(t, all, 2)
}
