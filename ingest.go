package culvert

import (
	"io"

	"github.com/go-i2p/logger"
	"github.com/quic-go/quic-go"
)

// streamIngest assembles the single payload carried by one incoming
// stream. One ingest serves one stream: created when the stream is
// observed, it dispatches at most one payload and is then discarded,
// never reused.
type streamIngest struct {
	session *Session
	stream  quic.ReceiveStream
	limit   int
}

func newStreamIngest(s *Session, stream quic.ReceiveStream) *streamIngest {
	return &streamIngest{
		session: s,
		stream:  stream,
		limit:   s.maxPayloadSize,
	}
}

// run reads the stream to end-of-stream and dispatches the assembled
// payload. Reading one byte past the limit distinguishes an oversized
// payload from one that exactly fills it; oversized streams are aborted
// and dropped without dispatch. A read error (peer reset, connection
// teardown) abandons the payload with nothing dispatched.
func (in *streamIngest) run() {
	payload, err := io.ReadAll(io.LimitReader(in.stream, int64(in.limit)+1))
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"id":     in.session.id,
			"stream": in.stream.StreamID(),
		}).Debug("Abandoned partially received payload")
		return
	}

	if len(payload) > in.limit {
		in.stream.CancelRead(StreamErrorPayloadTooLarge)
		log.WithFields(logger.Fields{
			"id":     in.session.id,
			"stream": in.stream.StreamID(),
			"limit":  in.limit,
		}).Warn("Dropped oversized payload stream")
		return
	}

	in.session.dispatchFromNetwork(payload)
}
