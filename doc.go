// Package culvert provides a session layer that tunnels opaque payloads
// bidirectionally over a QUIC connection, choosing per payload between
// the unreliable datagram path and a reliable per-payload fallback
// stream.
//
// The datagram path is preferred for its low cost; whenever the
// transport refuses a datagram (no peer support, frame too large, send
// queue full), the payload is carried instead on a short-lived
// unidirectional stream that is written once and closed. Both paths are
// counted, so operators can observe how often a connection degrades to
// streamed delivery.
//
// # Delivery Model
//
// Outgoing payloads take exactly one path:
//  1. SendPacketToPeer probes datagram support with a local, non-blocking
//     capability check and attempts the datagram send.
//  2. On refusal, it opens one fallback stream dedicated to the payload,
//     writes it, and signals end-of-stream; the stream then tears itself
//     down without the sender waiting on it.
//
// Incoming traffic mirrors this: datagrams are handed to the handler's
// ProcessPacketFromPeer unmodified, while each non-control stream is
// assembled to end-of-stream and handed to ProcessPacketFromNetwork.
// The two hook directions are opposite sides of the tunnel and must not
// be swapped. Delivery is at-most-once and best-effort; nothing is
// retried across paths.
//
// # Sessions
//
// A Session wraps an established connection it does not own. Initialize
// builds the handshake control stream through an injected factory
// (OpenControlStream for initiators, AcceptControlStream for
// responders) and starts the receive loops; Close detaches the session
// again. Connection teardown closes the session from outside. A tunnel
// session reports ShouldKeepConnectionAlive true even when fully idle,
// since zero open streams between payloads is its normal state.
//
// # Negotiation
//
// The culvert/tag subpackage carries the companion negotiation
// primitive: compact 4-byte identifiers with permissive operator-config
// parsing, and a mutual-selection scan in which the local preference
// order always picks the winner.
//
// # Example
//
//	conn, err := quic.DialAddr(ctx, addr, tlsConf, &quic.Config{EnableDatagrams: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session, err := culvert.NewSession(conn, handler)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	// Send a payload - datagram when possible, fallback stream otherwise
//	if err := session.SendPacketToPeer(packet); err != nil {
//	    log.Println(err)
//	}
package culvert
