// Package execkey turns executable paths, command lines, and desktop-entry
// Exec= values into normalized, alias-tolerant lookup keys.
package execkey

import (
	"path/filepath"
	"strings"
)

// channelSuffixes and roleSuffixes are stripped (once each, in this order)
// to produce an alias key: "foo-beta" aliases to "foo", "foo-desktop" to "foo".
var channelSuffixes = []string{"-stable", "-beta", "-dev", "-bin"}
var roleSuffixes = []string{"-browser", "-desktop", "-applet"}

// indirectionShells are launch wrappers whose own name tells us nothing about
// the program they run. A command line starting with one of these yields no
// match token; callers must fall back to other strategies.
var indirectionShells = map[string]bool{
	"sh":         true,
	"bash":       true,
	"zsh":        true,
	"fish":       true,
	"steam":      true,
	"gtk-launch": true,
	"xdg-open":   true,
}

// flatpakValueFlags are `flatpak run` flags that take a separate value token.
var flatpakValueFlags = map[string]bool{
	"--arch":            true,
	"--branch":          true,
	"--command":         true,
	"--file-forwarding": true,
}

// Normalize reduces a raw token to its canonical key form: lowercase,
// spaces/underscores/dots replaced with hyphens, leading and trailing hyphens
// trimmed. Returns false when the input reduces to nothing. Normalization is
// idempotent.
func Normalize(value string) (string, bool) {
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '.':
			return '-'
		}
		return r
	}, strings.TrimSpace(value))

	normalized := strings.Trim(strings.ToLower(replaced), "-")
	if normalized == "" {
		return "", false
	}
	return normalized, true
}

// CandidateKeys derives up to two keys from a path, command line, or Exec=
// value: the normalized key itself plus a suffix-stripped alias.
func CandidateKeys(value string) []string {
	normalized, ok := normalizeToken(value)
	if !ok {
		return nil
	}

	keys := []string{normalized}

	alias := normalized
	for _, suffix := range channelSuffixes {
		if strings.HasSuffix(alias, suffix) {
			alias = strings.TrimSuffix(alias, suffix)
		}
	}
	for _, suffix := range roleSuffixes {
		if strings.HasSuffix(alias, suffix) {
			alias = strings.TrimSuffix(alias, suffix)
		}
	}

	if alias != "" && alias != normalized {
		keys = append(keys, alias)
	}
	return keys
}

// PrimaryKey is CandidateKeys without the alias expansion: the single
// high-confidence key for a value, if it yields one.
func PrimaryKey(value string) (string, bool) {
	return normalizeToken(value)
}

func normalizeToken(value string) (string, bool) {
	token, ok := MatchToken(value)
	if !ok {
		token = strings.TrimSpace(value)
	}
	token = strings.Trim(token, `"'`)
	token = strings.TrimSuffix(token, ".desktop")
	token = fileStem(token)
	return Normalize(token)
}

// MatchToken extracts the token of a command line that actually identifies
// the program: it skips a leading env invocation and its KEY=VALUE/flag
// tokens, unwraps `flatpak run` to the application ref, and refuses to answer
// for indirection shells. The boolean is false when no useful token exists.
func MatchToken(value string) (string, bool) {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return "", false
	}

	index := 0
	if commandStem(tokens[index]) == "env" {
		index++
		for index < len(tokens) {
			token := tokens[index]
			if strings.Contains(token, "=") || strings.HasPrefix(token, "-") {
				index++
			} else {
				break
			}
		}
		if index >= len(tokens) {
			return "", false
		}
	}

	if commandStem(tokens[index]) == "flatpak" {
		idx := index + 1
		if idx < len(tokens) && commandStem(tokens[idx]) == "run" {
			idx++
			for idx < len(tokens) {
				flag := tokens[idx]
				if !strings.HasPrefix(flag, "-") {
					break
				}
				idx++
				if flatpakValueFlags[flag] && idx < len(tokens) && !strings.HasPrefix(tokens[idx], "-") {
					idx++
				}
			}
			if idx < len(tokens) {
				return tokens[idx], true
			}
		}
	}

	if indirectionShells[commandStem(tokens[index])] {
		return "", false
	}

	return tokens[index], true
}

// ExecLikeArg reports whether a command argument plausibly names a program:
// not a flag, no '=', at least three characters, contains a letter and one of
// '/', '-', '.'.
func ExecLikeArg(arg string) bool {
	if strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") || len(arg) < 3 {
		return false
	}
	hasAlpha := false
	for _, r := range arg {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return false
	}
	return strings.ContainsAny(arg, "/-.")
}

// FromProcess derives the ordered, de-duplicated candidate keys for a running
// process: executable stem first, then the joined command line, then every
// exec-like argument, then argv0. The bare process name is the fallback when
// nothing else yields a key.
func FromProcess(exe string, cmdline []string, name string) []string {
	var keys []string
	seen := make(map[string]bool)

	add := func(candidates []string) {
		for _, key := range candidates {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	if exe != "" {
		add(CandidateKeys(fileStem(exe)))
	}

	if len(cmdline) > 0 {
		add(CandidateKeys(strings.Join(cmdline, " ")))

		for _, arg := range cmdline {
			if ExecLikeArg(arg) {
				add(CandidateKeys(arg))
			}
		}

		add(CandidateKeys(cmdline[0]))
	}

	if len(keys) == 0 {
		add(CandidateKeys(name))
	}

	return keys
}

// fileStem reduces "/usr/bin/foo.bar" to "foo", leaving bare tokens alone.
func fileStem(token string) string {
	base := filepath.Base(token)
	if base == "." || base == string(filepath.Separator) {
		return token
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func commandStem(token string) string {
	return strings.ToLower(filepath.Base(token))
}
