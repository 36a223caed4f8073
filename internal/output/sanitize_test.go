package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/exepta/appscope/pkg/model"
)

func TestSanitizeCell(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Firefox", "Firefox"},
		{"hi\x1b[31mred", `hi\\x1b[31mred`},
		{"two\nlines", `two\\x0alines`},
		{"tab\there", `tab\\x09here`},
		{"bad:\xff", `bad:\\xff`},
		{"emoji \U0001f600 ok", "emoji \U0001f600 ok"},
	}
	for _, tt := range tests {
		if got := SanitizeCell(tt.in); got != tt.want {
			t.Errorf("SanitizeCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func FuzzAppendEscapedRune(f *testing.F) {
	f.Add(uint32(0x00))
	f.Add(uint32(0x1b))
	f.Add(uint32(0x7f))
	f.Add(uint32(0x80))
	f.Add(uint32(0xff))
	f.Add(uint32(0x100))
	f.Add(uint32(0x20ac))
	f.Add(uint32(0xffff))
	f.Add(uint32(0x10000))
	f.Add(uint32(0x10ffff))

	f.Fuzz(func(t *testing.T, raw uint32) {
		// keep this within the valid Unicode scalar range
		r := rune(raw % (unicode.MaxRune + 1))

		var b strings.Builder
		appendEscapedRune(&b, r)
		got := b.String()

		var want string
		switch {
		case r <= 0xFF:
			want = fmt.Sprintf(`\\x%02x`, r)
		case r <= 0xFFFF:
			want = fmt.Sprintf(`\\u%04x`, r)
		default:
			want = fmt.Sprintf(`\\U%08x`, r)
		}

		if got != want {
			t.Fatalf("appendEscapedRune(%#x) = %q, want %q", r, got, want)
		}

		// output must be visible ascii
		for i := 0; i < len(got); i++ {
			if got[i] >= 0x80 {
				t.Fatalf("appendEscapedRune(%#x) produced non-ASCII byte 0x%02x in %q", r, got[i], got)
			}
		}
	})
}

func FuzzSanitizeCellSingleLine(f *testing.F) {
	f.Add("plain")
	f.Add("esc\x1b[2Jwipe")
	f.Add("multi\nline\tname")
	f.Add("bad\xffbyte")

	f.Fuzz(func(t *testing.T, s string) {
		got := SanitizeCell(s)
		if strings.ContainsAny(got, "\n\r\t\x1b") {
			t.Fatalf("SanitizeCell(%q) left control characters in %q", s, got)
		}
	})
}

func TestPrintTableSanitizesNames(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.AppEntry{
		{AppID: "x", Name: "evil\x1b[2Jname", PID: 7, Threads: 1},
	}
	if err := PrintTable(&buf, entries); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b") {
		t.Fatalf("table output contains a raw escape: %q", out)
	}
	if !strings.Contains(out, `evil\\x1b[2Jname`) {
		t.Fatalf("escaped name missing from %q", out)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.AppEntry{{AppID: "firefox", Name: "Firefox", PID: 100}}
	if err := PrintJSON(&buf, entries); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"Firefox"`) {
		t.Fatalf("unexpected JSON: %q", buf.String())
	}
}
