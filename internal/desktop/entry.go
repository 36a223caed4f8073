//go:build linux

// Package desktop discovers installed desktop-entry applications and builds
// the exec-key registry used to resolve processes to application identities.
package desktop

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one parsed .desktop application descriptor.
type Entry struct {
	// ID is the desktop-entry id, e.g. "org.mozilla.firefox.desktop" relative
	// to its applications dir with path separators turned into dashes.
	ID   string
	Path string

	Name      string
	Icon      string
	Exec      string
	WMClass   string
	MimeTypes []string

	noDisplay  bool
	hidden     bool
	entryType  string
	onlyShowIn []string
	notShowIn  []string
}

// Locales returns the locale preference list: LANGUAGE entries (colon
// separated), then LANG, each truncated at '.', defaulting to en_US.
func Locales() []string {
	var locales []string

	appendLocale := func(raw string) {
		cleaned := strings.TrimSpace(strings.SplitN(raw, ".", 2)[0])
		if cleaned == "" {
			return
		}
		for _, existing := range locales {
			if existing == cleaned {
				return
			}
		}
		locales = append(locales, cleaned)
	}

	if language := os.Getenv("LANGUAGE"); language != "" {
		for _, locale := range strings.Split(language, ":") {
			appendLocale(locale)
		}
	}
	if lang := os.Getenv("LANG"); lang != "" {
		appendLocale(lang)
	}

	if len(locales) == 0 {
		locales = append(locales, "en_US")
	}
	return locales
}

// CurrentDesktop returns the first colon-separated token of
// XDG_CURRENT_DESKTOP, or "" when unset.
func CurrentDesktop() string {
	desktop := os.Getenv("XDG_CURRENT_DESKTOP")
	if desktop == "" {
		return ""
	}
	return strings.SplitN(desktop, ":", 2)[0]
}

// applicationDirs returns the XDG applications search path, user dir first.
func applicationDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home := os.Getenv("HOME"); home != "" {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, dir := range strings.Split(dataDirs, ":") {
		if dir != "" {
			dirs = append(dirs, filepath.Join(dir, "applications"))
		}
	}

	return dirs
}

// LoadEntries parses every visible application entry on the XDG search path,
// localizing names against the given locale preference list and filtering
// OnlyShowIn/NotShowIn against the current desktop. Earlier dirs shadow later
// ones by entry id.
func LoadEntries(locales []string, currentDesktop string) []Entry {
	var entries []Entry
	seen := make(map[string]bool)

	for _, dir := range applicationDirs() {
		root := os.DirFS(dir)
		_ = fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".desktop") {
				return nil
			}

			id := strings.ReplaceAll(path, "/", "-")
			if seen[id] {
				return nil
			}

			entry, ok := parseEntryFile(filepath.Join(dir, filepath.FromSlash(path)), id, locales)
			if !ok {
				return nil
			}
			seen[id] = true

			if entry.visibleOn(currentDesktop) {
				entries = append(entries, entry)
			}
			return nil
		})
	}

	return entries
}

func (e Entry) visibleOn(currentDesktop string) bool {
	if e.entryType != "" && e.entryType != "Application" {
		return false
	}
	if e.noDisplay || e.hidden {
		return false
	}

	for _, desktop := range e.notShowIn {
		if desktop == currentDesktop {
			return false
		}
	}
	if len(e.onlyShowIn) > 0 {
		for _, desktop := range e.onlyShowIn {
			if desktop == currentDesktop {
				return true
			}
		}
		return false
	}
	return true
}

func parseEntryFile(path, id string, locales []string) (Entry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, false
	}
	defer f.Close()

	entry := Entry{ID: id, Path: path}
	// Smaller index means better locale match; len(locales) means the
	// unlocalized Name, anything beyond that means no name yet.
	nameRank := len(locales) + 1

	inDesktopEntry := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}
		if !inDesktopEntry {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case key == "Type":
			entry.entryType = value
		case key == "Name":
			if nameRank > len(locales) {
				entry.Name = value
				nameRank = len(locales)
			}
		case strings.HasPrefix(key, "Name["):
			locale := strings.TrimSuffix(strings.TrimPrefix(key, "Name["), "]")
			for rank, wanted := range locales {
				if localeMatches(locale, wanted) && rank < nameRank {
					entry.Name = value
					nameRank = rank
					break
				}
			}
		case key == "Icon":
			entry.Icon = value
		case key == "Exec":
			entry.Exec = value
		case key == "StartupWMClass":
			entry.WMClass = value
		case key == "MimeType":
			for _, mime := range strings.Split(value, ";") {
				if mime = strings.TrimSpace(mime); mime != "" {
					entry.MimeTypes = append(entry.MimeTypes, mime)
				}
			}
		case key == "NoDisplay":
			entry.noDisplay = value == "true"
		case key == "Hidden":
			entry.hidden = value == "true"
		case key == "OnlyShowIn":
			entry.onlyShowIn = splitList(value)
		case key == "NotShowIn":
			entry.notShowIn = splitList(value)
		}
	}

	if entry.Name == "" {
		return Entry{}, false
	}
	return entry, true
}

// localeMatches accepts exact matches and a bare-language entry matching a
// lang_COUNTRY preference ("de" satisfies "de_DE").
func localeMatches(entryLocale, wanted string) bool {
	if entryLocale == wanted {
		return true
	}
	lang, _, _ := strings.Cut(wanted, "_")
	return entryLocale == lang
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
