package culvert

import (
	"context"

	"github.com/quic-go/quic-go"
)

// receiveDatagramLoop pulls datagrams off the connection and feeds them
// to OnMessageReceived until the connection or session ends.
func (s *Session) receiveDatagramLoop(ctx context.Context) {
	for {
		payload, err := s.transport.ReceiveDatagram(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).WithField("id", s.id).Debug("Datagram receive loop ended")
			}
			return
		}
		s.OnMessageReceived(payload)
	}
}

// acceptUniStreamLoop admits incoming unidirectional streams. Each one
// carries exactly one payload and gets its own ingest.
func (s *Session) acceptUniStreamLoop(ctx context.Context) {
	for {
		stream, err := s.transport.AcceptUniStream(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).WithField("id", s.id).Debug("Unidirectional accept loop ended")
			}
			return
		}
		go s.OnStreamOpened(stream)
	}
}

// acceptStreamLoop admits incoming bidirectional streams. The control
// stream never lands here: a responder's factory adopts it during
// Initialize, before this loop starts. Anything else is treated as a
// payload stream, and the unused write half is closed after ingest.
func (s *Session) acceptStreamLoop(ctx context.Context) {
	for {
		stream, err := s.transport.AcceptStream(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).WithField("id", s.id).Debug("Bidirectional accept loop ended")
			}
			return
		}
		go func(st quic.Stream) {
			s.OnStreamOpened(st)
			_ = st.Close()
		}(stream)
	}
}

// OnMessageReceived is the datagram-arrival event: the payload is
// counted and handed unmodified to ProcessPacketFromPeer.
func (s *Session) OnMessageReceived(payload []byte) {
	s.messagePackets.Inc()

	s.dispatchMu.Lock()
	s.handler.ProcessPacketFromPeer(payload)
	s.dispatchMu.Unlock()
}

// OnStreamOpened is the stream-arrival event for any non-control
// stream: a fresh ingest assembles the stream's single payload to
// end-of-stream, after which the payload is counted and handed to
// ProcessPacketFromNetwork. Datagram arrivals go to the peer-direction
// hook, assembled stream payloads to the network-direction hook; the
// two must never be swapped.
func (s *Session) OnStreamOpened(stream quic.ReceiveStream) {
	newStreamIngest(s, stream).run()
}

// dispatchFromNetwork counts an assembled payload and runs the
// network-direction hook under the dispatch lock.
func (s *Session) dispatchFromNetwork(payload []byte) {
	s.ephemeralPackets.Inc()

	s.dispatchMu.Lock()
	s.handler.ProcessPacketFromNetwork(payload)
	s.dispatchMu.Unlock()
}
