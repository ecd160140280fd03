package culvert

import (
	"bytes"
	"sync"
	"testing"
)

// recordingSink captures forwarded payloads for assertions.
type recordingSink struct {
	mu      sync.Mutex
	packets [][]byte
}

var _ PacketSink = (*recordingSink)(nil)

func (r *recordingSink) WritePacketToNetwork(payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packets = append(r.packets, append([]byte(nil), payload...))
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.packets)
}

func (r *recordingSink) at(i int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.packets[i]
}

// TestNullSink_WritePacketToNetwork verifies the no-op sink accepts any
// payload shape without effect.
func TestNullSink_WritePacketToNetwork(t *testing.T) {
	sink := NullSink{}

	tests := []struct {
		name    string
		payload []byte
	}{
		{
			name:    "NilPayload",
			payload: nil,
		},
		{
			name:    "EmptyPayload",
			payload: []byte{},
		},
		{
			name:    "SmallPayload",
			payload: []byte("hello"),
		},
		{
			name:    "LargePayload",
			payload: make([]byte, 64*1024),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink.WritePacketToNetwork(tt.payload)
		})
	}
}

// TestSession_PacketSink_DefaultIsNull verifies a session without a
// configured sink forwards into the no-op sink rather than nil.
func TestSession_PacketSink_DefaultIsNull(t *testing.T) {
	session, err := NewSession(newFakeTransport(), &capturingHandler{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if _, ok := session.PacketSink().(NullSink); !ok {
		t.Errorf("default PacketSink() = %T, want NullSink", session.PacketSink())
	}
}

// TestSession_SetPacketSink verifies sink replacement is visible to the
// handler on the next dispatch.
func TestSession_SetPacketSink(t *testing.T) {
	session, err := NewSession(newFakeTransport(), &capturingHandler{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	sink := &recordingSink{}
	session.SetPacketSink(sink)

	if session.PacketSink() != PacketSink(sink) {
		t.Error("PacketSink() did not return the replacement sink")
	}
}

// forwardingHandler bridges stream-assembled payloads into the
// session's packet sink, the way a tunnel endpoint forwards toward its
// local network.
type forwardingHandler struct {
	session *Session
}

func (h *forwardingHandler) ProcessPacketFromPeer(payload []byte) {}

func (h *forwardingHandler) ProcessPacketFromNetwork(payload []byte) {
	h.session.PacketSink().WritePacketToNetwork(payload)
}

// TestSession_SinkForwarding verifies the full out-of-band path: a
// stream-delivered payload is assembled, dispatched, and forwarded into
// the injected sink by the handler.
func TestSession_SinkForwarding(t *testing.T) {
	sink := &recordingSink{}
	handler := &forwardingHandler{}
	session := newActiveSession(t, newFakeTransport(), handler, WithPacketSink(sink))
	handler.session = session

	payload := []byte("toward the local network")
	session.OnStreamOpened(newFakeReceiveStream(19, payload))

	if got := sink.count(); got != 1 {
		t.Fatalf("sink received %d payloads, want 1", got)
	}
	if !bytes.Equal(sink.at(0), payload) {
		t.Errorf("sink payload = %q, want %q", sink.at(0), payload)
	}
}
