package culvert

import "time"

// Option is a function that configures a Session.
type Option func(*Session)

// WithID sets the session identifier used in log fields. When unset, a
// ULID is generated at construction.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithMaxPayloadSize overrides DefaultMaxPayloadSize for both outgoing
// payloads and incoming stream assembly.
func WithMaxPayloadSize(n int) Option {
	return func(s *Session) {
		s.maxPayloadSize = n
	}
}

// WithWriteTimeout overrides DefaultWriteTimeout for fallback stream
// writes. Zero disables the write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.writeTimeout = d
	}
}

// WithPacketSink sets the packet sink available to the session's
// handler for out-of-band forwarding.
func WithPacketSink(sink PacketSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithControlStreamFactory sets the factory Initialize uses to
// construct the handshake control stream. The default is
// OpenControlStream; a responder passes AcceptControlStream instead.
func WithControlStreamFactory(factory ControlStreamFactory) Option {
	return func(s *Session) {
		s.controlFactory = factory
	}
}
