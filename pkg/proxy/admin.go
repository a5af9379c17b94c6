package proxy

import (
	"errors"
	"net"
	"sync"

	"github.com/gatekit/mcproxy/pkg/event"
	"github.com/hashicorp/yamux"
	"go.uber.org/zap"
)

// adminChannel multiplexes the proxy's one administrative connection - the
// socket an IRC bridge, web console, or terminal UI collaborator dials in
// on (§1(e)) - into independent logical streams, so those out-of-scope
// collaborators never each need a socket of their own into the core.
type adminChannel struct {
	mu      sync.Mutex
	session *yamux.Session
}

// ErrNoAdminChannel is returned by OpenAdminStream before any collaborator
// has connected.
var ErrNoAdminChannel = errors.New("proxy: no administrative channel connected")

// ListenAdmin accepts administrative connections on addr, multiplexing
// each with yamux.Server. Only one collaborator is active at a time; a new
// connection replaces whatever session preceded it. Blocks until addr's
// listener errors (typically on Shutdown).
func (p *Proxy) ListenAdmin(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		<-p.shutdown
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		session, err := yamux.Server(conn, nil)
		if err != nil {
			_ = conn.Close()
			continue
		}
		p.admin.mu.Lock()
		p.admin.session = session
		p.admin.mu.Unlock()
		go p.acceptAdminStreams(session)
	}
}

func (p *Proxy) acceptAdminStreams(session *yamux.Session) {
	for {
		stream, err := session.Accept()
		if err != nil {
			return
		}
		p.event.FirePayload(event.AdminStreamOpened, map[string]interface{}{"stream": stream})
	}
}

// OpenAdminStream opens a new logical stream to the connected administrative
// collaborator. Returns ErrNoAdminChannel if nothing is connected, or if the
// previously connected session has since gone away.
func (p *Proxy) OpenAdminStream() (net.Conn, error) {
	p.admin.mu.Lock()
	session := p.admin.session
	p.admin.mu.Unlock()
	if session == nil || session.IsClosed() {
		return nil, ErrNoAdminChannel
	}
	stream, err := session.Open()
	if err != nil {
		zap.L().Debug("admin channel open failed", zap.Error(err))
		return nil, err
	}
	return stream, nil
}
