// Package tag implements the compact 4-byte protocol identifiers used
// during connection negotiation, together with their human-readable
// rendering and the mutual-selection primitive that picks one identifier
// both endpoints support.
//
// # Overview
//
// A Tag packs four arbitrary bytes into a 32-bit value, least-significant
// byte first. Tags identify capabilities, versions, and options compactly
// on the wire; their string forms exist only for logs and operator
// configuration. Parsing is permissive: malformed operator input still
// yields a tag value instead of an error, so a config typo degrades to
// a non-matching tag rather than a crash during negotiation.
//
// # Usage
//
//	ours := tag.List{tag.Make('Q', 'B', 'I', 'C'), tag.Make('A', 'B', 'C', 'D')}
//	theirs := tag.ParseList("ABCD,QBIC")
//
//	match, peerIndex, ok := tag.FindMutual(ours, theirs)
//	if !ok {
//	    // no mutually supported identifier; abort the connection attempt
//	}
//	_ = peerIndex // position of match in the peer's list, informational only
package tag
