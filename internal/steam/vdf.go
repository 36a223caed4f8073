package steam

import "strings"

// Valve's VDF/ACF files are brace-delimited trees, but every field we need
// sits on its own `"key"  "value"` line. A line scanner that ignores the
// structural lines is enough and never panics on malformed input.

// quotedKV splits a `"key"  "value"` line, returning false for structural or
// malformed lines.
func quotedKV(line string) (string, string, bool) {
	parts := strings.Split(line, `"`)
	if len(parts) < 5 {
		return "", "", false
	}
	key := strings.TrimSpace(parts[1])
	value := strings.TrimSpace(parts[3])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// ACFValue returns the value for a key inside an appmanifest_<id>.acf body.
// Key comparison is case-insensitive, matching Valve's own tooling.
func ACFValue(content, key string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		lineKey, lineValue, ok := quotedKV(line)
		if !ok {
			continue
		}
		if strings.EqualFold(lineKey, key) {
			return lineValue, true
		}
	}
	return "", false
}

// LibraryRootsFromVDF extracts every "path" value from a libraryfolders.vdf
// body, unescaping doubled backslashes, preserving order, dropping duplicates.
func LibraryRootsFromVDF(content string) []string {
	var roots []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(content, "\n") {
		key, value, ok := quotedKV(line)
		if !ok || key != "path" {
			continue
		}
		path := strings.ReplaceAll(value, `\\`, `\`)
		if path != "" && !seen[path] {
			seen[path] = true
			roots = append(roots, path)
		}
	}

	return roots
}
