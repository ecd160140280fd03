package culvert

import (
	"time"

	"github.com/quic-go/quic-go"
)

// Payload limits.
const (
	// DefaultMaxPayloadSize is the largest payload a session sends or
	// assembles from a single stream (64KB). Tunneled payloads are
	// IP-packet sized, so anything larger indicates a broken or hostile
	// peer rather than legitimate traffic.
	DefaultMaxPayloadSize = 64 * 1024
)

// Stream error codes signaled when a payload stream is aborted.
const (
	// StreamErrorPayloadTooLarge is sent on an incoming stream that
	// exceeds the session's payload size limit.
	StreamErrorPayloadTooLarge quic.StreamErrorCode = 0x1

	// StreamErrorAbandoned is sent on an outgoing fallback stream whose
	// payload write failed partway through.
	StreamErrorAbandoned quic.StreamErrorCode = 0x2
)

// Session configuration defaults.
var (
	// DefaultWriteTimeout is the default deadline for writing a payload
	// to a fallback stream. A stalled peer window fails the write
	// instead of parking the sender.
	DefaultWriteTimeout = 10 * time.Second
)
