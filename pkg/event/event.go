// Package event implements the plugin/event bus the proxy core emits named
// events to. Handlers are registered per event name and return a Verdict;
// the bus is a thin synchronous dispatcher, not a generic pub/sub system,
// matching how the proxy core itself only ever fires and immediately
// consults the single resulting verdict.
package event

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Verdict is the tagged result a handler returns for a payload-carrying
// event: Pass forwards the original payload untouched, Drop suppresses it
// entirely, ReplaceJSON/ReplaceText substitute a new payload before it is
// re-encoded and forwarded.
type Verdict struct {
	kind verdictKind
	json map[string]interface{}
	text string
}

type verdictKind uint8

const (
	verdictPass verdictKind = iota
	verdictDrop
	verdictReplaceJSON
	verdictReplaceText
)

// Pass forwards the event's payload unmodified.
func Pass() Verdict { return Verdict{kind: verdictPass} }

// Drop suppresses the event's payload; nothing is forwarded.
func Drop() Verdict { return Verdict{kind: verdictDrop} }

// ReplaceJSON substitutes v, re-encoded, for the original payload.
func ReplaceJSON(v map[string]interface{}) Verdict {
	return Verdict{kind: verdictReplaceJSON, json: v}
}

// ReplaceText wraps s as {"text": s} and substitutes it for the original payload.
func ReplaceText(s string) Verdict {
	return Verdict{kind: verdictReplaceText, text: s}
}

func (v Verdict) IsPass() bool        { return v.kind == verdictPass }
func (v Verdict) IsDrop() bool        { return v.kind == verdictDrop }
func (v Verdict) IsReplaceJSON() bool { return v.kind == verdictReplaceJSON }
func (v Verdict) IsReplaceText() bool { return v.kind == verdictReplaceText }
func (v Verdict) JSON() map[string]interface{} { return v.json }
func (v Verdict) Text() string                 { return v.text }

// Names of the events the core fires, per the hook points the parse
// pipeline (§4.4) consults.
const (
	PlayerChatbox  = "player.chatbox"
	PlayerSpawned  = "player.spawned"
	PlayerUseBed   = "player.usebed"
	PlayerMount    = "player.mount"
	PlayerUnmount  = "player.unmount"
	PlayerPlace    = "player.place"
	PlayerDig      = "player.dig"
	PlayerConnect  = "player.connect"

	// AdminStreamOpened fires when an administrative collaborator (IRC
	// bridge, web console, terminal UI - §1(e)) opens a new multiplexed
	// stream on the proxy's admin channel.
	AdminStreamOpened = "admin.stream_opened"
)

// Handler receives an event's payload and returns a verdict. Payload shapes
// vary by event name; handlers type-assert or inspect the map as needed.
type Handler func(payload map[string]interface{}) Verdict

// GenericEvent is fired for events that carry no payload needing a verdict
// (Disconnect, CommandExecute and the like) - anything implementing this
// interface can be dispatched through Manager.Fire/FireParallel.
type GenericEvent interface {
	// Name selects the handlers registered under it via SubscribeGeneric
	// and identifies the event in log lines.
	Name() string
}

type subscription struct {
	priority int
	handler  Handler
	generic  func(GenericEvent)
}

// Manager is the proxy-wide event bus. The zero value is not usable; use New.
type Manager struct {
	log *zap.Logger

	mu            sync.RWMutex
	payloadSubs   map[string][]subscription
	genericSubs   map[string][]subscription
}

// New returns a ready Manager logging dispatch errors to log.
func New(log *zap.Logger) *Manager {
	return &Manager{
		log:         log,
		payloadSubs: make(map[string][]subscription),
		genericSubs: make(map[string][]subscription),
	}
}

// Subscribe registers fn to run whenever name is fired via FirePayload,
// highest priority first. Ties run in registration order.
func (m *Manager) Subscribe(name string, priority int, fn Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloadSubs[name] = insertSorted(m.payloadSubs[name], subscription{priority: priority, handler: fn})
}

// SubscribeGeneric registers fn to run whenever a GenericEvent named name
// is fired via Fire/FireParallel.
func (m *Manager) SubscribeGeneric(name string, priority int, fn func(GenericEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genericSubs[name] = insertSorted(m.genericSubs[name], subscription{priority: priority, generic: fn})
}

func insertSorted(subs []subscription, s subscription) []subscription {
	subs = append(subs, s)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].priority > subs[j].priority })
	return subs
}

// FirePayload runs every handler subscribed to name in priority order and
// returns the verdict of the first handler that does not Pass; if every
// handler passes (or none are subscribed) the result is Pass.
func (m *Manager) FirePayload(name string, payload map[string]interface{}) (verdict Verdict) {
	m.mu.RLock()
	subs := m.payloadSubs[name]
	m.mu.RUnlock()
	for _, s := range subs {
		if v, ok := m.callHandler(name, s.handler, payload); ok && !v.IsPass() {
			return v
		}
	}
	return Pass()
}

// callHandler runs a handler under recover, per §7: a plugin exception is
// logged and treated as "no verdict" rather than crashing the read loop.
func (m *Manager) callHandler(name string, fn Handler, payload map[string]interface{}) (v Verdict, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("plugin handler panicked", zap.String("event", name), zap.Any("recover", r))
			v, ok = Pass(), false
		}
	}()
	return fn(payload), true
}

// Fire runs every handler subscribed to ev's name synchronously, in
// priority order, and blocks until all have returned.
func (m *Manager) Fire(ev GenericEvent) {
	m.dispatch(ev, true)
}

// FireParallel runs every handler subscribed to ev's name concurrently and
// invokes done once all have returned, without blocking the caller.
func (m *Manager) FireParallel(ev GenericEvent, done func(GenericEvent)) {
	go func() {
		m.dispatch(ev, false)
		if done != nil {
			done(ev)
		}
	}()
}

func (m *Manager) dispatch(ev GenericEvent, sync bool) {
	m.mu.RLock()
	subs := m.genericSubs[ev.Name()]
	m.mu.RUnlock()
	if len(subs) == 0 {
		return
	}
	if sync {
		for _, s := range subs {
			m.callGeneric(ev, s.generic)
		}
		return
	}
	var wg sync.WaitGroup
	for _, s := range subs {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.callGeneric(ev, s.generic)
		}()
	}
	wg.Wait()
}

func (m *Manager) callGeneric(ev GenericEvent, fn func(GenericEvent)) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("plugin handler panicked", zap.String("event", ev.Name()), zap.Any("recover", r))
		}
	}()
	fn(ev)
}
