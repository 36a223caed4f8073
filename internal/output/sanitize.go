// Package output renders the application list for non-interactive use and
// keeps untrusted names from smuggling escape sequences into the terminal.
package output

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// SanitizeCell makes a string safe for a single table cell. Application
// names come from desktop entries, Steam manifests, and /proc, none of which
// we control. Every control character is rewritten to a visible escape, tabs
// and newlines included, since a cell must stay on one line.
// Examples:
//   - "hi\x1b[31mred" -> "hi\x1b[31mred" (ESC becomes visible)
//   - "two\nlines"    -> "two\x0alines"
//   - "bad:\xff"      -> "bad:\xff" (invalid UTF-8 byte)
func SanitizeCell(s string) string {
	idx := 0
	// fast path: scan until we find a control rune / invalid UTF-8 byte
	for idx < len(s) {
		r, size := utf8.DecodeRuneInString(s[idx:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		if unicode.IsControl(r) {
			break
		}
		idx += size
	}
	if idx == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:idx])

	// slow path: walk the remainder and rewrite any control bytes/runes
	for idx < len(s) {
		r, size := utf8.DecodeRuneInString(s[idx:])
		if r == utf8.RuneError && size == 1 {
			// preserve invalid bytes without letting them act as controls
			appendEscapedByte(&b, s[idx])
			idx++
			continue
		}

		if unicode.IsControl(r) {
			appendEscapedRune(&b, r)
			idx += size
			continue
		}
		b.WriteString(s[idx : idx+size])
		idx += size
	}

	return b.String()
}

func appendEscapedByte(b *strings.Builder, bt byte) {
	b.WriteString(`\\x`)
	b.WriteByte(hexDigits[bt>>4])
	b.WriteByte(hexDigits[bt&0x0f])
}

// appendEscapedRune emits the shortest visible form:
//   - r = 0x1b     -> "\x1b"
//   - r = 0x2028   -> " "
//   - r = 0x1f600  -> "\U0001f600"
func appendEscapedRune(b *strings.Builder, r rune) {
	if r <= 0xFF {
		appendEscapedByte(b, byte(r))
		return
	}

	if r <= 0xFFFF {
		b.WriteString(`\\u`)
		b.WriteByte(hexDigits[(r>>12)&0x0f])
		b.WriteByte(hexDigits[(r>>8)&0x0f])
		b.WriteByte(hexDigits[(r>>4)&0x0f])
		b.WriteByte(hexDigits[r&0x0f])
		return
	}

	b.WriteString(`\\U`)
	b.WriteByte(hexDigits[(r>>28)&0x0f])
	b.WriteByte(hexDigits[(r>>24)&0x0f])
	b.WriteByte(hexDigits[(r>>20)&0x0f])
	b.WriteByte(hexDigits[(r>>16)&0x0f])
	b.WriteByte(hexDigits[(r>>12)&0x0f])
	b.WriteByte(hexDigits[(r>>8)&0x0f])
	b.WriteByte(hexDigits[(r>>4)&0x0f])
	b.WriteByte(hexDigits[r&0x0f])
}
