package engine

import (
	"path/filepath"
	"strings"

	"github.com/exepta/appscope/pkg/model"
)

// backgroundMarkers flag support processes that belong to an app but should
// not represent it, keyed on substring matches against process names.
var backgroundMarkers = []string{"daemon", "applet", "helper", "service"}

// excludedAppIDMarkers drop whole resolved identities that are shell or
// session plumbing rather than user-facing applications.
var excludedAppIDMarkers = []string{
	"launcher",
	"panel",
	"notifications",
	"osd",
	"workspaces",
	"greeter",
	"xdg-desktop-portal",
	"daemon",
}

// eligible filters the raw process table down to candidates worth resolving.
// Kernel threads show bracketed names and no exe; other users' processes are
// not this session's applications.
func eligible(s model.ProcessSample, uid uint32) bool {
	if s.UID != uid {
		return false
	}
	if s.Exe == "" {
		return false
	}
	if s.Name == "" || strings.HasPrefix(s.Name, "[") {
		return false
	}
	return !backgroundComponent(s)
}

// backgroundComponent reports whether a process looks like an app's support
// piece. Checks the exe stem, argv0 stem, and name.
func backgroundComponent(s model.ProcessSample) bool {
	names := []string{
		stem(s.Exe),
		stem(s.Argv0()),
		strings.ToLower(s.Name),
	}
	for _, name := range names {
		for _, marker := range backgroundMarkers {
			if strings.Contains(name, marker) {
				return true
			}
		}
	}
	return false
}

// excludedAppID reports whether a resolved identity is session plumbing.
func excludedAppID(appID string) bool {
	for _, marker := range excludedAppIDMarkers {
		if strings.Contains(appID, marker) {
			return true
		}
	}
	return false
}

func stem(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToLower(base)
}
