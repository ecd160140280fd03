package culvert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-i2p/logger"
	"github.com/oklog/ulid/v2"
	"github.com/quic-go/quic-go"
	"go.uber.org/atomic"
)

// Session tunnels opaque payloads bidirectionally over one QUIC
// connection. Each outgoing payload is delivered over the datagram path
// when the transport supports it, falling back to a short-lived
// per-payload stream otherwise; each incoming datagram or stream is
// dispatched to the injected PacketHandler.
//
// A session owns its handshake control stream exclusively but never the
// connection itself: teardown of the connection closes the session, not
// the other way around.
type Session struct {
	transport Transport
	handler   PacketHandler

	// Control stream, owned exclusively once Initialize has run.
	control quic.Stream

	// Sink for out-of-band forwarding. Borrowed from the owner, never closed.
	sink PacketSink

	controlFactory ControlStreamFactory

	// Delivery statistics, one counter set per session.
	ephemeralPackets atomic.Uint64
	messagePackets   atomic.Uint64
	streamedPackets  atomic.Uint64
	fallbackToStream atomic.Uint64

	// Lifecycle.
	state      atomic.Int32
	loopCancel context.CancelFunc
	done       chan struct{}
	closeOnce  sync.Once

	// Serializes handler dispatch: transport events arrive on several
	// goroutines, but hooks never run concurrently for one session.
	dispatchMu sync.Mutex

	// Guards control, sink, and loopCancel.
	mu sync.RWMutex

	// Session metadata, fixed at construction.
	id             string
	maxPayloadSize int
	writeTimeout   time.Duration
}

// NewSession creates a Session over an established connection. The
// handler receives every delivered payload; the connection stays owned
// by the caller. No I/O happens until Initialize.
//
// Example usage:
//
//	conn, err := quic.DialAddr(ctx, addr, tlsConf, &quic.Config{EnableDatagrams: true})
//	if err != nil {
//	    // handle error
//	}
//	session, err := culvert.NewSession(conn, handler)
//	if err != nil {
//	    // handle error
//	}
//	if err := session.Initialize(ctx); err != nil {
//	    // handle error
//	}
//	defer session.Close()
func NewSession(transport Transport, handler PacketHandler, opts ...Option) (*Session, error) {
	if transport == nil {
		return nil, errors.New("culvert: nil transport")
	}
	if handler == nil {
		return nil, errors.New("culvert: nil packet handler")
	}

	s := &Session{
		transport:      transport,
		handler:        handler,
		sink:           NullSink{},
		controlFactory: OpenControlStream,
		maxPayloadSize: DefaultMaxPayloadSize,
		writeTimeout:   DefaultWriteTimeout,
		done:           make(chan struct{}),
	}

	// Apply options
	for _, opt := range opts {
		opt(s)
	}

	if s.controlFactory == nil {
		return nil, errors.New("culvert: nil control stream factory")
	}
	if s.sink == nil {
		return nil, errors.New("culvert: nil packet sink")
	}
	if s.maxPayloadSize <= 0 {
		return nil, errors.New("culvert: non-positive max payload size")
	}
	if s.id == "" {
		s.id = ulid.Make().String()
	}

	log.WithFields(logger.Fields{
		"id":               s.id,
		"max_payload_size": s.maxPayloadSize,
	}).Debug("Created tunnel session")

	return s, nil
}

// OpenControlStream is the initiator-side control stream factory: it
// opens a new bidirectional stream for the handshake. This is the
// default factory.
func OpenControlStream(ctx context.Context, transport Transport) (quic.Stream, error) {
	return transport.OpenStreamSync(ctx)
}

// AcceptControlStream is the responder-side control stream factory: it
// adopts the control stream the peer opens.
func AcceptControlStream(ctx context.Context, transport Transport) (quic.Stream, error) {
	return transport.AcceptStream(ctx)
}

// Initialize constructs the control stream via the configured factory,
// takes exclusive ownership of it, and starts the transport event
// loops. It must be called once before any payload traffic; a second
// call returns ErrAlreadyInitialized.
//
// On factory failure the session returns to the created state, so the
// caller may retry.
func (s *Session) Initialize(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateInitializing)) {
		if s.State() == StateClosed {
			return ErrSessionClosed
		}
		return ErrAlreadyInitialized
	}

	control, err := s.controlFactory(ctx, s.transport)
	if err != nil {
		s.state.Store(int32(StateCreated))
		return fmt.Errorf("culvert: creating control stream: %w", err)
	}

	// Event loops live until the connection goes away or Close detaches
	// the session.
	loopCtx, cancel := context.WithCancel(s.transport.Context())

	s.mu.Lock()
	s.control = control
	s.loopCancel = cancel
	s.mu.Unlock()

	go s.receiveDatagramLoop(loopCtx)
	go s.acceptUniStreamLoop(loopCtx)
	go s.acceptStreamLoop(loopCtx)
	go s.watchTeardown(loopCtx)

	// The connection may have died while the loops were starting; never
	// overwrite Closed with Active.
	if !s.state.CompareAndSwap(int32(StateInitializing), int32(StateActive)) {
		cancel()
		_ = control.Close()
		return ErrSessionClosed
	}

	log.WithFields(logger.Fields{
		"id":             s.id,
		"control_stream": control.StreamID(),
	}).Debug("Tunnel session initialized")

	return nil
}

// watchTeardown moves the session to Closed once the loop context ends,
// covering peer close, transport error, and local detach alike.
func (s *Session) watchTeardown(ctx context.Context) {
	<-ctx.Done()
	s.markClosed()
}

// markClosed transitions to StateClosed exactly once.
func (s *Session) markClosed() {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosed))
		close(s.done)
		log.WithField("id", s.id).Debug("Tunnel session closed")
	})
}

// Close detaches the session from the connection: it stops the event
// loops, closes the owned control stream, and marks the session closed.
// The underlying connection is left to its owner. Safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	cancel := s.loopCancel
	control := s.control
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if control != nil {
		_ = control.Close()
	}
	s.markClosed()
	return nil
}

// ControlStream returns the handshake control stream the session owns.
// Calling it before Initialize is a precondition violation and panics;
// the stream does not exist until the factory has run.
func (s *Session) ControlStream() quic.Stream {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.control == nil {
		panic("culvert: control stream accessed before Initialize")
	}
	return s.control
}

// SetPacketSink replaces the packet sink available to the session's
// handler. The sink must not be nil; it is borrowed, never closed.
func (s *Session) SetPacketSink(sink PacketSink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

// PacketSink returns the current packet sink.
func (s *Session) PacketSink() PacketSink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sink
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// IsClosed reports whether the session has reached StateClosed.
func (s *Session) IsClosed() bool {
	return s.State() == StateClosed
}

// WaitForClose blocks until the session is closed.
func (s *Session) WaitForClose() {
	<-s.done
}

// ShouldKeepConnectionAlive reports whether the owning layer should
// keep the underlying connection open. Always true while the session
// exists: a tunnel idles with zero open streams between payloads, so
// close-when-idle policies must not apply to it.
func (s *Session) ShouldKeepConnectionAlive() bool {
	return true
}

// GetNumEphemeralPackets returns how many payloads have been assembled
// from incoming per-payload streams.
func (s *Session) GetNumEphemeralPackets() uint64 {
	return s.ephemeralPackets.Load()
}

// GetNumMessagePackets returns how many payloads have arrived on the
// datagram path.
func (s *Session) GetNumMessagePackets() uint64 {
	return s.messagePackets.Load()
}

// GetNumStreamedPackets returns how many payloads have been sent over
// fallback streams.
func (s *Session) GetNumStreamedPackets() uint64 {
	return s.streamedPackets.Load()
}

// GetNumFallbackToStream returns how many sends were diverted from the
// datagram path to the stream path.
func (s *Session) GetNumFallbackToStream() uint64 {
	return s.fallbackToStream.Load()
}
