package textcodec

import (
	gserrors "github.com/wippyai/gsi-script/errors"
)

// delta maps one compressed byte c to the pair uint16(c - delta).
const delta = 0x7D62

// IsLead reports whether c starts an uncompressed two-byte pair.
func IsLead(c byte) bool {
	return c >= 0x81 && c <= 0x9F
}

// Expand undoes the MESZ compression. Lead bytes pass through with their
// trail byte; any other non-zero byte c expands to the big-endian pair
// uint16(c - 0x7D62). Expansion stops at the first zero. A lead byte at
// the very end is passed through alone.
func Expand(b []byte) []byte {
	out := make([]byte, 0, len(b)*2)
	for i := 0; i < len(b); {
		c := b[i]
		i++
		if c == 0 {
			break
		}
		if IsLead(c) {
			out = append(out, c)
			if i < len(b) {
				out = append(out, b[i])
				i++
			}
			continue
		}
		v := uint16(c) - delta
		out = append(out, byte(v>>8), byte(v))
	}
	return out
}

// Compress is the inverse of Expand over its image: pairs that a single
// byte expands to collapse to that byte, pairs starting with a lead byte
// pass through. Anything else cannot be expressed and is rejected.
//
// Rebuilt scripts are never compressed; Compress exists to check Expand.
func Compress(raw []byte) ([]byte, error) {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		c := raw[i]
		if i+1 < len(raw) {
			if b, ok := collapse(c, raw[i+1]); ok {
				out = append(out, b)
				i += 2
				continue
			}
		}
		if !IsLead(c) {
			return nil, gserrors.New(gserrors.PhaseRebuild, gserrors.KindEncoding).
				Detail("byte 0x%02X at %d has no compressed form", c, i).
				Value(i).
				Build()
		}
		out = append(out, c)
		if i+1 < len(raw) {
			out = append(out, raw[i+1])
		}
		i += 2
	}
	return out, nil
}

// collapse returns the single byte that expands to hi,lo.
func collapse(hi, lo byte) (byte, bool) {
	v := uint16(hi)<<8 | uint16(lo)
	c := v + delta
	if c == 0 || c > 0xFF || IsLead(byte(c)) {
		return 0, false
	}
	return byte(c), true
}
