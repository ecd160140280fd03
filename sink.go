package culvert

// NullSink is a PacketSink that discards every payload. Sessions use it
// as the default sink so forwarding before SetPacketSink is a no-op
// rather than a nil dereference.
type NullSink struct{}

// WritePacketToNetwork discards the payload.
func (NullSink) WritePacketToNetwork(payload []byte) {}

// Compile-time interface assertion.
var _ PacketSink = NullSink{}
