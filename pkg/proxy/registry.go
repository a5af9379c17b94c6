package proxy

import (
	"sync"

	"github.com/google/uuid"
)

// registryEntry is one logged-in player's identity bridge: the online
// (client-facing) UUID the client was told at login, the offline
// (backend) UUID the backend actually uses, and the backend entity id
// once PLAY has started (§4.5).
type registryEntry struct {
	username    string
	onlineUUID  uuid.UUID
	offlineUUID uuid.UUID
	serverEID   int32
	player      *connectedPlayer
}

// registry is the proxy-wide identity bridge every session consults to
// rewrite a backend's offline UUID to the online UUID the client expects
// (§4.5, §8 invariant 5). Contention is low and operations are short, so a
// single mutex guards the whole thing, matching §5's resource model.
type registry struct {
	mu          sync.Mutex
	byOnline    map[uuid.UUID]*registryEntry
	byOffline   map[uuid.UUID]*registryEntry
	byUsername  map[string]*registryEntry
	byServerEID map[int32]*registryEntry
}

func newRegistry() *registry {
	return &registry{
		byOnline:    make(map[uuid.UUID]*registryEntry),
		byOffline:   make(map[uuid.UUID]*registryEntry),
		byUsername:  make(map[string]*registryEntry),
		byServerEID: make(map[int32]*registryEntry),
	}
}

// register adds or replaces the entry for a logged-in player.
func (r *registry) register(p *connectedPlayer, username string, online, offline uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &registryEntry{
		username:    username,
		onlineUUID:  online,
		offlineUUID: offline,
		player:      p,
	}
	r.byOnline[online] = e
	r.byOffline[offline] = e
	r.byUsername[username] = e
}

// setServerEID records the backend entity id assigned to a registered
// player once its server session completes JOIN_GAME.
func (r *registry) setServerEID(offline uuid.UUID, eid int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byOffline[offline]
	if !ok {
		return
	}
	if old, ok := r.byServerEID[e.serverEID]; ok && old == e {
		delete(r.byServerEID, e.serverEID)
	}
	e.serverEID = eid
	r.byServerEID[eid] = e
}

// remove drops every index entry for online.
func (r *registry) remove(online uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byOnline[online]
	if !ok {
		return
	}
	delete(r.byOnline, online)
	delete(r.byOffline, e.offlineUUID)
	delete(r.byUsername, e.username)
	delete(r.byServerEID, e.serverEID)
}

func (r *registry) byOnlineUUID(u uuid.UUID) (*connectedPlayer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byOnline[u]
	if !ok {
		return nil, false
	}
	return e.player, true
}

// byOfflineUUID resolves a backend-seen offline UUID to the online UUID
// the client was told at login (§8 invariant 5's core lookup).
func (r *registry) byOfflineUUID(u uuid.UUID) (online uuid.UUID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byOffline[u]
	if !ok {
		return uuid.UUID{}, false
	}
	return e.onlineUUID, true
}

func (r *registry) byUsernameLookup(name string) (*connectedPlayer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byUsername[name]
	if !ok {
		return nil, false
	}
	return e.player, true
}

func (r *registry) byServerEntityID(eid int32) (*connectedPlayer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byServerEID[eid]
	if !ok {
		return nil, false
	}
	return e.player, true
}

// sweepStale removes every entry whose client socket has already closed
// without going through the normal disconnect path (e.g. a backend-side
// read error that raced the client close), returning the players removed
// so the caller can finish tearing down their backend leg too.
func (r *registry) sweepStale() []*connectedPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stale []*connectedPlayer
	for online, e := range r.byOnline {
		if e.player.client == nil || e.player.client.Closed() {
			stale = append(stale, e.player)
			delete(r.byOnline, online)
			delete(r.byOffline, e.offlineUUID)
			delete(r.byUsername, e.username)
			delete(r.byServerEID, e.serverEID)
		}
	}
	return stale
}

// all returns every currently registered player, for a proxy-wide broadcast
// or shutdown sweep.
func (r *registry) all() []*connectedPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*connectedPlayer, 0, len(r.byOnline))
	for _, e := range r.byOnline {
		out = append(out, e.player)
	}
	return out
}
