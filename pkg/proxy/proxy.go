// Package proxy implements the MITM core (§2): it accepts client
// connections, negotiates the wire protocol exactly as a real server
// would, dials the one configured backend on the client's behalf, and
// rewrites selected packets while forwarding the rest untouched.
package proxy

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gatekit/mcproxy/internal/store"
	"github.com/gatekit/mcproxy/pkg/config"
	"github.com/gatekit/mcproxy/pkg/event"
	"github.com/gatekit/mcproxy/pkg/mojang"
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/proto/state"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Proxy owns the listener, the proxy-wide registry and event bus, and the
// single backend address every client session dials against.
type Proxy struct {
	config *config.Config
	event  *event.Manager

	registry *registry
	keyPair  *mojang.KeyPair

	backendAddr string

	listener net.Listener
	shutdown chan struct{}

	// handshakeLimiters rate-limits handshake attempts per remote IP when
	// disconnect-nonproxy-connections is set (§6), dropping connections
	// that hammer the listener faster than any real client ever would.
	handshakeLimiters sync.Map // string(host) -> *rate.Limiter

	admin adminChannel

	// store is the persisted ban-list/UUID-cache backend (§6). Nil until
	// SetStore is called; login proceeds unchecked against bans when nil.
	store store.Store
}

// SetStore installs the persisted-state backend login consults for bans
// and the UUID cache. Must be called before Run, if at all.
func (p *Proxy) SetStore(s store.Store) { p.store = s }

// New builds a Proxy from cfg. cfg.BackendAddr names the single Minecraft
// server this proxy sits in front of (§1: single-backend MITM, not a
// multi-server switcher).
func New(cfg *config.Config) (*Proxy, error) {
	keyPair, err := mojang.NewKeyPair()
	if err != nil {
		return nil, fmt.Errorf("proxy: generating encryption keypair: %w", err)
	}
	return &Proxy{
		config:      cfg,
		event:       event.New(zap.L()),
		registry:    newRegistry(),
		keyPair:     keyPair,
		backendAddr: cfg.BackendAddr,
		shutdown:    make(chan struct{}),
	}, nil
}

// Event returns the proxy-wide plugin/event bus.
func (p *Proxy) Event() *event.Manager { return p.event }

// Run binds proxy-bind:proxy-port and serves until Shutdown is called or
// the listener errors.
func (p *Proxy) Run() error {
	if !p.config.ProxyEnabled {
		<-p.shutdown
		return nil
	}
	addr := net.JoinHostPort(p.config.ProxyBind, strconv.Itoa(p.config.ProxyPort))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	p.listener = ln
	zap.S().Infof("listening on %s", addr)

	go func() {
		<-p.shutdown
		_ = ln.Close()
	}()

	go p.sweepStaleLoop()

	for {
		c, err := ln.Accept()
		if err != nil {
			select {
			case <-p.shutdown:
				return nil
			default:
				return err
			}
		}
		go p.handleConn(c)
	}
}

// Shutdown stops accepting new connections, closes the listener, and
// disconnects every connected player with reason shown as their DISCONNECT
// chat message (§7).
func (p *Proxy) Shutdown(reason string) {
	select {
	case <-p.shutdown:
		// already closed
	default:
		close(p.shutdown)
	}
	for _, player := range p.registry.all() {
		player.disconnect(reason)
	}
}

// sweepStaleLoop periodically drops registry entries whose client socket
// has already closed without running the normal disconnect path (§4.5
// "sweep_stale()"), finishing off their backend leg too.
func (p *Proxy) sweepStaleLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-p.shutdown:
			return
		case <-ticker.C:
			for _, player := range p.registry.sweepStale() {
				player.disconnect("")
			}
		}
	}
}

func (p *Proxy) handleConn(base net.Conn) {
	if p.config.DisconnectNonProxyConnections && !p.allowHandshake(base.RemoteAddr()) {
		_ = base.Close()
		return
	}
	connDetails := func() []zap.Field { return nil }
	conn := newMinecraftConn(base, p, true, connDetails)
	conn.setSessionHandler(newHandshakeSessionHandler(conn))
	_ = conn.run(context.Background())
}

// allowHandshake reports whether remote is still within its handshake rate
// budget, creating a fresh limiter the first time an address is seen.
func (p *Proxy) allowHandshake(remote net.Addr) bool {
	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		host = remote.String()
	}
	v, _ := p.handshakeLimiters.LoadOrStore(host, rate.NewLimiter(rate.Every(2*time.Second), 5))
	return v.(*rate.Limiter).Allow()
}

// dialBackend opens the single backend connection for a just-authenticated
// client (§2 data flow: "on LOGIN success, spawn server-session").
func (p *Proxy) dialBackend(player *connectedPlayer) (*minecraftConn, error) {
	c, err := net.DialTimeout("tcp", p.backendAddr, time.Duration(p.config.ConnectionTimeout)*time.Second)
	if err != nil {
		return nil, err
	}
	connDetails := func() []zap.Field { return []zap.Field{zap.String("player", player.username)} }
	conn := newMinecraftConn(c, p, false, connDetails)
	return conn, nil
}

// connectBackend dials the backend on player's behalf, performs the
// handshake/login-start bootstrap the backend expects of any client, then
// hands the connection over to the server-play pipeline once it reaches
// PLAY. The backend is always addressed in offline mode (§1: the proxy
// fulfils online-mode authentication for the client, never for a backend
// it's translating for; §4.4 LOGIN packet 0x01 from a backend is fatal).
func (p *Proxy) connectBackend(player *connectedPlayer) {
	conn, err := p.dialBackend(player)
	if err != nil {
		zap.S().Warnf("failed to connect %q to backend: %v", player.username, err)
		player.disconnect("failed to connect to backend server")
		return
	}
	player.mu.Lock()
	player.backend = conn
	player.mu.Unlock()

	boot := newBackendLoginBootstrap(player, conn)
	conn.setSessionHandler(boot)

	host, portStr, splitErr := net.SplitHostPort(p.backendAddr)
	var port uint16
	if splitErr == nil {
		if n, convErr := strconv.Atoi(portStr); convErr == nil {
			port = uint16(n)
		}
	} else {
		host = p.backendAddr
	}

	if err := conn.WritePacket(proto.HandshakeIntention, &packet.Handshake{
		ProtocolVersion: int32(player.client.Protocol()),
		ServerAddress:   host,
		ServerPort:      port,
		NextState:       packet.NextStateLogin,
	}); err != nil {
		zap.S().Warnf("failed to handshake backend for %q: %v", player.username, err)
		player.disconnect("failed to connect to backend server")
		return
	}
	conn.setState(state.Login)
	if err := conn.WritePacket(proto.LoginStart, &packet.LoginStart{Username: player.username}); err != nil {
		zap.S().Warnf("failed to send backend login-start for %q: %v", player.username, err)
		player.disconnect("failed to connect to backend server")
		return
	}

	_ = conn.run(context.Background())
}
