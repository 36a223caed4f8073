package execkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Firefox", "firefox", true},
		{"  Visual Studio Code  ", "visual-studio-code", true},
		{"org_gnome_Calculator", "org-gnome-calculator", true},
		{"a.b.c", "a-b-c", true},
		{"---", "", false},
		{"", "", false},
		{"   ", "", false},
		{"-edge-case-", "edge-case", true},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Firefox", "visual studio code", "a_b.c d", "steam-runtime", "--x--",
	}
	for _, in := range inputs {
		once, ok := Normalize(in)
		if !ok {
			continue
		}
		twice, ok := Normalize(once)
		require.True(t, ok)
		assert.Equal(t, once, twice)
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	f.Add("Firefox")
	f.Add("visual studio code")
	f.Add("a_b.c")
	f.Add("---")
	f.Add("steam app 123")

	f.Fuzz(func(t *testing.T, s string) {
		once, ok := Normalize(s)
		if !ok {
			return
		}
		twice, ok := Normalize(once)
		if !ok {
			t.Fatalf("Normalize(%q) produced %q which no longer normalizes", s, once)
		}
		if once != twice {
			t.Fatalf("Normalize is not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestCandidateKeysAliases(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"firefox", []string{"firefox"}},
		{"vivaldi-stable", []string{"vivaldi-stable", "vivaldi"}},
		{"signal-desktop", []string{"signal-desktop", "signal"}},
		// Channel suffix strips before role suffix, once each.
		{"telegram-desktop-bin", []string{"telegram-desktop-bin", "telegram"}},
		{"chromium-browser", []string{"chromium-browser", "chromium"}},
		{"/usr/bin/code", []string{"code"}},
		{"App.desktop", []string{"app"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CandidateKeys(tt.in), "input %q", tt.in)
	}
}

func TestCandidateKeysAtMostTwo(t *testing.T) {
	for _, in := range []string{"a-beta-bin-browser-desktop", "x-stable", "plain"} {
		keys := CandidateKeys(in)
		assert.LessOrEqual(t, len(keys), 2, "input %q", in)
	}
}

func TestMatchToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/usr/bin/firefox --new-window", "/usr/bin/firefox", true},
		{"env FOO=bar firefox", "firefox", true},
		{"/usr/bin/env -S LANG=C waterfox", "waterfox", true},
		{"env A=1 B=2", "", false},
		{"flatpak run org.mozilla.firefox", "org.mozilla.firefox", true},
		{"flatpak run --branch stable --arch x86_64 com.spotify.Client", "com.spotify.Client", true},
		{"flatpak run --command=sh org.gnome.Boxes", "org.gnome.Boxes", true},
		// Indirection shells give no token at all.
		{"sh -c something", "", false},
		{"/bin/bash script.sh", "", false},
		{"steam steam://rungameid/730", "", false},
		{"gtk-launch firefox", "", false},
		{"xdg-open https://example.com", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		got, ok := MatchToken(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestExecLikeArg(t *testing.T) {
	assert.True(t, ExecLikeArg("/opt/app/bin/tool"))
	assert.True(t, ExecLikeArg("my-program"))
	assert.True(t, ExecLikeArg("prog.py"))

	assert.False(t, ExecLikeArg("--flag"))
	assert.False(t, ExecLikeArg("KEY=value"))
	assert.False(t, ExecLikeArg("ab"))
	assert.False(t, ExecLikeArg("1234-5"))
	assert.False(t, ExecLikeArg("plainword"))
}

func TestFromProcess(t *testing.T) {
	keys := FromProcess(
		"/usr/lib/firefox/firefox",
		[]string{"/usr/bin/firefox", "--new-instance"},
		"firefox",
	)
	require.NotEmpty(t, keys)
	assert.Equal(t, "firefox", keys[0])
	// De-duplicated even though exe, cmdline, and argv0 all say firefox.
	assert.Equal(t, []string{"firefox"}, keys)
}

func TestFromProcessWrappedCommand(t *testing.T) {
	keys := FromProcess(
		"/usr/bin/bwrap",
		[]string{"flatpak", "run", "com.spotify.Client"},
		"bwrap",
	)
	require.NotEmpty(t, keys)
	// The flatpak ref reduces through the file-stem step, so both the wrapped
	// cmdline and the desktop entry's flatpak Exec= land on the same key.
	assert.Contains(t, keys, "com-spotify")
	assert.Contains(t, keys, "bwrap")
}

func TestFromProcessFallsBackToName(t *testing.T) {
	keys := FromProcess("", nil, "mystery-proc")
	assert.Equal(t, []string{"mystery-proc"}, keys)
}
