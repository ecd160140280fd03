package tag

// FindMutual selects one mutually supported tag from two ordered
// preference lists. It scans ours in order and, for each entry, scans
// theirs in order; the first equal pair wins and the scan stops.
//
// The local list dictates the winner: the peer's preference order is
// reported back as peerIndex for diagnostics but never influences the
// choice.
//
// ok is false when the lists share no tag, in which case the caller
// typically aborts the connection attempt.
func FindMutual(ours, theirs List) (match Tag, peerIndex int, ok bool) {
	for _, ourTag := range ours {
		for j, theirTag := range theirs {
			if ourTag == theirTag {
				return ourTag, j, true
			}
		}
	}
	return 0, 0, false
}
