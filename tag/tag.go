package tag

import (
	"encoding/hex"
	"strings"
)

// Tag is a 4-byte protocol identifier packed into a 32-bit value,
// least-significant byte first. Any byte value is legal; equality is
// exact 4-byte equality.
type Tag uint32

// List is an ordered sequence of tags. Order encodes preference:
// index 0 is the most preferred entry, and both parsing and negotiation
// preserve it.
type List []Tag

// Make packs four bytes into a Tag, least-significant byte first, so
// Make('A', 'B', 'C', 'D') prints as "ABCD".
func Make(b0, b1, b2, b3 byte) Tag {
	return Tag(uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24)
}

// String renders the tag for logs and configuration files.
//
// The zero tag renders as "0". A tag whose four bytes are printable
// ASCII renders as those four characters, low byte first; a trailing
// 0x00 or 0xFF high byte is shown as a space so padded ASCII tags stay
// readable. Anything else renders as 8 lowercase hex characters over
// the raw little-endian bytes, which Parse accepts back.
func (t Tag) String() string {
	if t == 0 {
		return "0"
	}

	var chars [4]byte
	v := uint32(t)
	for i := 0; i < 4; i++ {
		c := byte(v)
		// A null or 0xFF pad is only tolerated in the high byte.
		if (c == 0x00 || c == 0xFF) && i == 3 {
			c = ' '
		}
		if c < 0x20 || c > 0x7E {
			return hex.EncodeToString([]byte{byte(t), byte(t >> 8), byte(t >> 16), byte(t >> 24)})
		}
		chars[i] = c
		v >>= 8
	}
	return string(chars[:])
}

// Parse converts operator-supplied text into a Tag. It never fails.
//
// The input is trimmed first. Trimmed text of exactly 8 characters is
// treated as the hex form produced by String when it decodes cleanly;
// otherwise the text bytes themselves are used. The source bytes are
// then folded last byte to first into the accumulator, which reverses
// Make for 4-byte input. Shorter input leaves the high bytes zero;
// longer input silently drops the earliest-folded bits. A typo in a
// config therefore yields a tag that simply matches nothing, never an
// error.
func Parse(s string) Tag {
	src := []byte(strings.TrimSpace(s))
	if len(src) == 8 {
		if decoded, err := hex.DecodeString(string(src)); err == nil {
			src = decoded
		}
	}

	var t Tag
	for i := len(src) - 1; i >= 0; i-- {
		t = t<<8 | Tag(src[i])
	}
	return t
}

// ParseList parses a comma-separated tag list such as "QBIC,ABCD".
// Empty or all-whitespace input yields an empty list. There is no
// escaping; each piece is trimmed and parsed independently by Parse.
func ParseList(s string) List {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	tags := make(List, 0, len(parts))
	for _, part := range parts {
		tags = append(tags, Parse(part))
	}
	return tags
}

// Contains reports whether t appears anywhere in the list.
func (l List) Contains(t Tag) bool {
	for _, candidate := range l {
		if candidate == t {
			return true
		}
	}
	return false
}

// String renders the list as comma-separated tag strings, the same
// shape ParseList consumes.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
