package culvert

import (
	"fmt"
	"time"

	"github.com/go-i2p/logger"
)

// SendPacketToPeer delivers one payload to the remote peer. The
// datagram path is tried first; when the transport refuses it, the
// payload falls back to a dedicated unidirectional stream that is
// written once and closed. Exactly one path carries any accepted
// payload.
//
// The call never blocks waiting for delivery: datagram sends are
// fire-and-forget, and fallback stream teardown completes on its own
// after the end-of-stream signal. Failures are reported synchronously
// and never retried here; delivery is at-most-once, best-effort.
func (s *Session) SendPacketToPeer(payload []byte) error {
	switch s.State() {
	case StateCreated, StateInitializing:
		return ErrNotInitialized
	case StateClosed:
		return ErrSessionClosed
	}

	if len(payload) > s.maxPayloadSize {
		return ErrPayloadTooLarge
	}

	if s.trySendDatagram(payload) {
		return nil
	}

	s.fallbackToStream.Inc()
	if err := s.sendViaStream(payload); err != nil {
		return err
	}
	s.streamedPackets.Inc()
	return nil
}

// trySendDatagram reports whether the payload left on the datagram
// path. The capability check and the send itself are both local and
// non-blocking; false means the caller takes the stream path, and the
// refusal reason (unsupported, frame too large, queue full) matters
// only for logging.
func (s *Session) trySendDatagram(payload []byte) bool {
	if !s.transport.ConnectionState().SupportsDatagrams {
		return false
	}
	if err := s.transport.SendDatagram(payload); err != nil {
		log.WithError(err).WithField("id", s.id).Debug("Datagram path refused payload")
		return false
	}
	return true
}

// sendViaStream opens the per-payload fallback stream, writes the
// payload, and signals end-of-stream. Stream creation failure is the
// synchronous failure SendPacketToPeer reports; a mid-write failure
// aborts the stream so the peer never assembles a truncated payload.
func (s *Session) sendViaStream(payload []byte) error {
	stream, err := s.transport.OpenUniStream()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStreamCreationFailed, err)
	}

	if s.writeTimeout > 0 {
		_ = stream.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}

	if _, err := stream.Write(payload); err != nil {
		stream.CancelWrite(StreamErrorAbandoned)
		return fmt.Errorf("culvert: writing fallback stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		log.WithError(err).WithField("id", s.id).Warn("Fallback stream close failed")
	}

	log.WithFields(logger.Fields{
		"id":     s.id,
		"stream": stream.StreamID(),
		"bytes":  len(payload),
	}).Debug("Payload sent over fallback stream")

	return nil
}
