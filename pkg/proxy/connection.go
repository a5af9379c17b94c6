package proxy

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gatekit/mcproxy/pkg/config"
	"github.com/gatekit/mcproxy/pkg/proto"
	"github.com/gatekit/mcproxy/pkg/proto/codec"
	"github.com/gatekit/mcproxy/pkg/proto/packet"
	"github.com/gatekit/mcproxy/pkg/proto/state"
	"github.com/gatekit/mcproxy/pkg/util/errs"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sessionHandler handles received packets from the associated connection.
//
// A connection's session transitions through several distinct handlers as
// its protocol state advances (handshake -> status|login -> play), so
// packet handling is divided between them.
type sessionHandler interface {
	handlePacket(ctx context.Context, p *proto.PacketContext) // Called to handle a decoded incoming packet.
	handleUnknownPacket(p *proto.PacketContext)                // Called to handle an incoming packet of unrecognized id.
	disconnected()                                              // Called when the connection is closing, to teardown the session.

	activated()   // Called when the connection is now managed by this sessionHandler.
	deactivated() // Called when the connection is no longer managed by this sessionHandler.
}

// minecraftConn is one Minecraft connection, either client -> proxy or
// proxy -> backend. Both ends use the exact same framing and session
// machinery; only the direction tags passed to the codec differ (§4.1).
type minecraftConn struct {
	proxy *Proxy
	c     net.Conn

	readBuf *bufio.Reader
	decoder *codec.Decoder

	writeBuf *bufio.Writer
	encoder  *codec.Encoder

	cancelFunc      context.CancelFunc
	closeOnce       sync.Once
	closed          atomic.Bool
	knownDisconnect atomic.Bool // silences the disconnect log; any error is already accounted for

	protocol proto.Protocol

	mu             sync.RWMutex
	state          *state.Registry
	sessionHandler sessionHandler
}

// newMinecraftConn wraps base. playerConn distinguishes a client-facing
// socket (reads are server-bound, writes are client-bound) from a
// backend-facing one (the reverse).
func newMinecraftConn(base net.Conn, proxy *Proxy, playerConn bool, connDetails func() []zap.Field) (conn *minecraftConn) {
	in := proto.ServerBound
	out := proto.ClientBound
	if !playerConn {
		in = proto.ClientBound
		out = proto.ServerBound
	}

	conn = &minecraftConn{
		proxy:    proxy,
		c:        base,
		writeBuf: bufio.NewWriter(base),
		readBuf:  bufio.NewReader(base),
		state:    state.Handshake,
		protocol: proto.Minecraft_1_7_2,
	}
	conn.encoder = codec.NewEncoder(conn.writeBuf, out)
	conn.decoder = codec.NewDecoder(conn.readBuf, in, func() []zap.Field {
		return append(connDetails(), zap.Stringer("remoteAddr", conn.RemoteAddr()))
	})
	return conn
}

func (c *minecraftConn) nextPacket() (*proto.PacketContext, error) {
	return c.decoder.ReadPacket()
}

func loop(ctx context.Context, c *minecraftConn) bool {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("recovered from panic in read loop: %v", r)
		}
	}()

	deadline := time.Now().Add(time.Duration(c.config().ReadTimeout) * time.Second)
	_ = c.c.SetReadDeadline(deadline)

	packetCtx, err := c.nextPacket()
	if err != nil && !errors.Is(err, codec.ErrDecoderLeftBytes) {
		zap.L().Debug("error reading packet", zap.Error(err))
		if handleReadErr(err) {
			time.Sleep(5 * time.Millisecond)
			return true
		}
		return false
	}
	if !packetCtx.KnownPacket {
		c.SessionHandler().handleUnknownPacket(packetCtx)
		return true
	}
	c.SessionHandler().handlePacket(ctx, packetCtx)
	return true
}

// readLoop is the connection's owning goroutine; it closes the connection
// on return, whatever the reason.
func (c *minecraftConn) readLoop(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	defer func() { _ = c.closeKnown(false) }()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if !loop(ctx, c) {
				return
			}
		}
	}
}

// errReadLoopDone is never surfaced to a caller of run; it is the sentinel
// the read-loop goroutine returns so the errgroup's derived context cancels
// the keep-alive ticker the instant the connection closes, rather than
// leaving it to notice on its next tick (§5).
var errReadLoopDone = errors.New("proxy: read loop exited")

// run supervises the connection's read loop alongside a periodic keep-alive
// ticker under one errgroup (§5, §1 ambient stack): a fatal error on either
// side tears down both instead of leaking the other goroutine past a
// connection that's already gone.
func (c *minecraftConn) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.readLoop(gctx)
		return errReadLoopDone
	})
	g.Go(func() error {
		return c.keepAliveLoop(gctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errReadLoopDone) {
		return err
	}
	return nil
}

// keepAliveLoop pings the peer on a fixed cadence once past Play, the same
// cadence a vanilla server's own keep-alive ticker uses; SendKeepAlive is a
// no-op before Play so this is harmless to start immediately.
func (c *minecraftConn) keepAliveLoop(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if c.Closed() {
				return nil
			}
			if err := c.SendKeepAlive(); err != nil {
				return err
			}
		}
	}
}

func handleReadErr(err error) (recoverable bool) {
	var silentErr *errs.SilentError
	if errors.As(err, &silentErr) {
		return false
	}
	if errors.Is(err, syscall.EAGAIN) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			zap.S().Debugf("read timeout: %v", err)
			return false
		}
		if errs.IsConnClosedErr(netErr.Err) {
			return false
		}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrNoProgress) || errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, io.ErrShortBuffer) || errors.Is(err, syscall.EBADF) ||
		strings.Contains(err.Error(), "use of closed file") {
		return false
	}
	zap.L().Debug("unrecoverable read error, closing connection", zap.Error(err))
	return false
}

// ErrClosedConn is returned by every write/buffer method once the
// connection has closed.
var ErrClosedConn = errors.New("proxy: connection is closed")

func (c *minecraftConn) flush() (err error) {
	defer func() { c.closeOnErr(err) }()
	deadline := time.Now().Add(time.Duration(c.config().ConnectionTimeout) * time.Second)
	if err = c.c.SetWriteDeadline(deadline); err != nil {
		return err
	}
	// Must flush under the encoder's lock, or a concurrent WritePacket can
	// interleave bytes with this flush and corrupt the frame.
	return c.encoder.Sync(c.writeBuf.Flush)
}

func (c *minecraftConn) closeOnErr(err error) {
	if err == nil {
		return
	}
	_ = c.close()
	if errors.Is(err, ErrClosedConn) {
		return
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && errs.IsConnClosedErr(opErr.Err) {
		return
	}
	zap.L().Debug("error writing packet, closing connection", zap.Error(err))
}

// WritePacket encodes, buffers and immediately flushes p under name.
func (c *minecraftConn) WritePacket(name proto.PacketName, p proto.Packet) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { c.closeOnErr(err) }()
	if err = c.BufferPacket(name, p); err != nil {
		return err
	}
	return c.flush()
}

// Write encodes and immediately flushes a raw, already-id-prefixed payload
// (used to forward an unknown or untouched packet verbatim).
func (c *minecraftConn) Write(payload []byte) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { c.closeOnErr(err) }()
	if err = c.encoder.Write(payload); err != nil {
		return err
	}
	return c.flush()
}

// BufferPacket encodes p into the write buffer without flushing.
func (c *minecraftConn) BufferPacket(name proto.PacketName, p proto.Packet) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { c.closeOnErr(err) }()
	return c.encoder.WritePacket(name, p)
}

// BufferPayload buffers a raw, already-id-prefixed payload without flushing.
func (c *minecraftConn) BufferPayload(payload []byte) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { c.closeOnErr(err) }()
	return c.encoder.Write(payload)
}

func (c *minecraftConn) config() *config.Config { return c.proxy.config }

func (c *minecraftConn) close() error { return c.closeKnown(true) }

func (c *minecraftConn) closeKnown(markKnown bool) (err error) {
	alreadyClosed := true
	c.closeOnce.Do(func() {
		alreadyClosed = false
		if markKnown {
			c.knownDisconnect.Store(true)
		}
		if c.cancelFunc != nil {
			c.cancelFunc()
		}
		c.closed.Store(true)
		err = c.c.Close()

		if sh := c.SessionHandler(); sh != nil {
			sh.disconnected()
		}
	})
	if alreadyClosed {
		err = ErrClosedConn
	}
	return err
}

// closeWith writes a final packet (typically DISCONNECT with a JSON chat
// reason, §7) before closing.
func (c *minecraftConn) closeWith(name proto.PacketName, p proto.Packet) (err error) {
	if c.Closed() {
		return ErrClosedConn
	}
	defer func() { err = c.close() }()
	c.knownDisconnect.Store(true)
	_ = c.WritePacket(name, p)
	return
}

func (c *minecraftConn) Closed() bool { return c.closed.Load() }

func (c *minecraftConn) RemoteAddr() net.Addr { return c.c.RemoteAddr() }

func (c *minecraftConn) Protocol() proto.Protocol { return c.protocol }

func (c *minecraftConn) setProtocol(p proto.Protocol) {
	c.protocol = p
	c.decoder.SetProtocol(p)
	c.encoder.SetProtocol(p)
}

func (c *minecraftConn) State() *state.Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *minecraftConn) setState(s *state.Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	c.decoder.SetState(s)
	c.encoder.SetState(s)
}

func (c *minecraftConn) SessionHandler() sessionHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionHandler
}

// setSessionHandler swaps in handler, deactivating the previous one first.
func (c *minecraftConn) setSessionHandler(handler sessionHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionHandler != nil {
		c.sessionHandler.deactivated()
	}
	c.sessionHandler = handler
	handler.activated()
}

// SetCompressionThreshold enables compression; the caller must have already
// sent packet.SetCompression to the peer.
func (c *minecraftConn) SetCompressionThreshold(threshold int) error {
	c.decoder.SetCompressionThreshold(threshold)
	c.encoder.SetCompression(threshold, c.config().Compression.Level)
	return nil
}

// SendKeepAlive writes a fresh KEEP_ALIVE if the connection has reached Play.
func (c *minecraftConn) SendKeepAlive() error {
	if c.State() == state.Play {
		return c.WritePacket(proto.KeepAlive, &packet.KeepAlive{RandomID: rand.Int63()})
	}
	return nil
}

// enableEncryption wraps the raw reader/writer in AES-CFB8, using secret as
// both key and IV per §3. Must run after EncryptionResponse is verified.
func (c *minecraftConn) enableEncryption(secret []byte) error {
	decryptReader, err := codec.NewDecryptReader(c.readBuf, secret)
	if err != nil {
		return err
	}
	encryptWriter, err := codec.NewEncryptWriter(c.writeBuf, secret)
	if err != nil {
		return err
	}
	c.decoder.SetReader(decryptReader)
	c.encoder.SetWriter(encryptWriter)
	return nil
}
