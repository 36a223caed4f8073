// Package steam resolves running processes to Steam titles: app-id extraction
// from command-line heuristics, library discovery through libraryfolders.vdf,
// and manifest-backed name/icon/install-dir lookup with a lazy cache.
package steam

import (
	"strings"

	"github.com/exepta/appscope/pkg/model"
)

// markers, in match order, each expected to be followed by an app id after
// optional separator characters.
var markers = []string{"appid=", "gameid=", "-gameid", "steam_app_", "rungameid/"}

// maxAncestorDepth bounds the parent-chain walk in AppIDForProcess.
const maxAncestorDepth = 12

// ExtractAppID finds a Steam app id inside an arbitrary string. The id must
// be a non-zero run of decimal digits following one of the known markers.
func ExtractAppID(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}

	lower := strings.ToLower(value)
	for _, marker := range markers {
		if id, ok := extractAfterMarker(value, lower, marker); ok {
			return id, true
		}
	}
	return "", false
}

func extractAfterMarker(original, lower, marker string) (string, bool) {
	offset := 0
	for {
		found := strings.Index(lower[offset:], marker)
		if found < 0 {
			return "", false
		}
		start := offset + found + len(marker)
		if id, ok := extractDecimalFrom(original, start); ok {
			return id, true
		}
		offset = start
	}
}

func extractDecimalFrom(value string, index int) (string, bool) {
	for index < len(value) {
		c := value[index]
		if c >= '0' && c <= '9' {
			break
		}
		switch c {
		case ' ', '=', ':', '/', '-', '"', '\'':
			index++
			continue
		}
		return "", false
	}

	start := index
	for index < len(value) && value[index] >= '0' && value[index] <= '9' {
		index++
	}

	if start == index {
		return "", false
	}
	id := value[start:index]
	if id == "0" {
		return "", false
	}
	return id, true
}

// appIDFromSample tries the sample's name, first command token, joined
// command line, and each argument individually, in that order.
func appIDFromSample(s model.ProcessSample) (string, bool) {
	if id, ok := ExtractAppID(s.Name); ok {
		return id, true
	}
	if argv0 := s.Argv0(); argv0 != "" {
		if id, ok := ExtractAppID(argv0); ok {
			return id, true
		}
	}
	if len(s.Cmdline) > 0 {
		if id, ok := ExtractAppID(strings.Join(s.Cmdline, " ")); ok {
			return id, true
		}
		for _, arg := range s.Cmdline {
			if id, ok := ExtractAppID(arg); ok {
				return id, true
			}
		}
	}
	return "", false
}

// AppIDForProcess resolves a Steam app id for a process, walking the parent
// chain (bounded, cycle-guarded) when the process itself yields nothing.
// Wrapper chains like reaper → proton → game are common under Steam.
func AppIDForProcess(s model.ProcessSample, byPID map[int32]model.ProcessSample) (string, bool) {
	if id, ok := appIDFromSample(s); ok {
		return id, true
	}

	visited := map[int32]bool{s.PID: true}
	parent := s.PPID
	for depth := 0; depth < maxAncestorDepth; depth++ {
		if parent <= 0 || visited[parent] {
			break
		}
		visited[parent] = true

		sample, ok := byPID[parent]
		if !ok {
			break
		}
		if id, ok := appIDFromSample(sample); ok {
			return id, true
		}
		parent = sample.PPID
	}

	return "", false
}
