package culvert

import (
	"context"
	"errors"

	"github.com/quic-go/quic-go"
)

// Common errors for session operations.
var (
	// ErrSessionClosed is returned when operations are attempted on a closed session.
	ErrSessionClosed = errors.New("culvert: session is closed")

	// ErrNotInitialized is returned when payload traffic is attempted before Initialize.
	ErrNotInitialized = errors.New("culvert: session is not initialized")

	// ErrAlreadyInitialized is returned when Initialize is called a second time.
	ErrAlreadyInitialized = errors.New("culvert: session is already initialized")

	// ErrStreamCreationFailed is returned when the fallback stream for a
	// payload could not be opened.
	ErrStreamCreationFailed = errors.New("culvert: fallback stream creation failed")

	// ErrPayloadTooLarge is returned when a payload exceeds the session's
	// maximum payload size.
	ErrPayloadTooLarge = errors.New("culvert: payload exceeds maximum size")
)

// State is a session lifecycle state.
type State int32

// Session lifecycle states. A session moves Created → Initializing →
// Active; Closed follows from connection teardown or the owner
// detaching the session, never from an internal decision.
const (
	// StateCreated means the session exists but Initialize has not run.
	StateCreated State = iota

	// StateInitializing means Initialize is constructing the control stream.
	StateInitializing

	// StateActive means the session is carrying payload traffic.
	StateActive

	// StateClosed means the underlying connection is gone or the owner
	// detached the session.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitializing:
		return "initializing"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transport is the narrow view of a QUIC connection the session
// consumes: the datagram primitives, stream creation and admission, and
// the connection lifetime context. A quic.Connection satisfies it
// directly; tests substitute fakes.
type Transport interface {
	// ConnectionState exposes the negotiated transport capabilities,
	// in particular datagram support.
	ConnectionState() quic.ConnectionState

	// SendDatagram queues one unreliable datagram without blocking.
	SendDatagram(payload []byte) error

	// ReceiveDatagram blocks until a datagram arrives or ctx ends.
	ReceiveDatagram(ctx context.Context) ([]byte, error)

	// OpenUniStream opens an outgoing unidirectional stream without
	// waiting on peer stream credit.
	OpenUniStream() (quic.SendStream, error)

	// AcceptUniStream blocks until the peer opens a unidirectional
	// stream or ctx ends.
	AcceptUniStream(ctx context.Context) (quic.ReceiveStream, error)

	// OpenStreamSync opens an outgoing bidirectional stream, waiting
	// for stream credit if necessary.
	OpenStreamSync(ctx context.Context) (quic.Stream, error)

	// AcceptStream blocks until the peer opens a bidirectional stream
	// or ctx ends.
	AcceptStream(ctx context.Context) (quic.Stream, error)

	// Context is canceled when the connection is torn down.
	Context() context.Context
}

// Compile-time check that a real QUIC connection satisfies Transport.
var _ Transport = (quic.Connection)(nil)

// ControlStreamFactory constructs the handshake control stream during
// Initialize. The session takes exclusive ownership of the returned
// stream.
type ControlStreamFactory func(ctx context.Context, transport Transport) (quic.Stream, error)

// PacketHandler receives the payloads a session delivers. It is
// implemented by the owning layer, typically the component bridging the
// tunnel to a local network device.
//
// The two hooks are opposite directions of the same tunnel; swapping
// them reverses traffic flow. Hook invocations are serialized per
// session: no two hook calls run concurrently against one session.
type PacketHandler interface {
	// ProcessPacketFromPeer handles a payload that arrived from the
	// remote peer on the datagram path.
	ProcessPacketFromPeer(payload []byte)

	// ProcessPacketFromNetwork handles a payload assembled from a
	// fallback stream, headed toward the locally attached network.
	ProcessPacketFromNetwork(payload []byte)
}

// PacketSink accepts payloads forwarded out-of-band, toward the local
// network side of the tunnel. The session holds a sink reference for
// its handler's use but never closes it; the sink belongs to the owner.
type PacketSink interface {
	// WritePacketToNetwork forwards one payload to the local network.
	WritePacketToNetwork(payload []byte)
}
