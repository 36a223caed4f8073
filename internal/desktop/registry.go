//go:build linux

package desktop

import (
	"sort"
	"strings"

	"github.com/exepta/appscope/internal/execkey"
)

// App is the registry's view of one installed application. Built fresh at
// registry load and immutable afterwards.
type App struct {
	AppID string
	Name  string
	Icon  string

	// PrimaryKeys are the high-confidence exec keys: derived from the Exec=
	// line and the StartupWMClass hint rather than mime types or the id.
	PrimaryKeys map[string]bool

	EntryID   string
	EntryPath string
	Exec      string
}

// Registry maps exec keys to applications, each key bound to exactly one app.
// Rebuilt every tick; cheap next to the process scan.
type Registry struct {
	byKey map[string]*App
}

// LoadRegistry builds the registry from the installed desktop entries visible
// to the current session.
func LoadRegistry() *Registry {
	return BuildRegistry(LoadEntries(Locales(), CurrentDesktop()))
}

// BuildRegistry derives candidate keys for each entry and resolves key
// contention, keeping the best-ranked application per key.
func BuildRegistry(entries []Entry) *Registry {
	candidatesByKey := make(map[string][]*App)

	for _, entry := range entries {
		appID, ok := execkey.Normalize(strings.TrimSuffix(entry.ID, ".desktop"))
		if !ok {
			continue
		}

		candidates := make(map[string]bool)
		primaries := make(map[string]bool)

		if entry.Exec != "" {
			for _, key := range execkey.CandidateKeys(entry.Exec) {
				candidates[key] = true
				primaries[key] = true
			}
		}
		candidates[appID] = true
		if entry.WMClass != "" {
			for _, key := range execkey.CandidateKeys(entry.WMClass) {
				candidates[key] = true
				primaries[key] = true
			}
		}
		for _, mime := range entry.MimeTypes {
			if suffix := mimeSuffix(mime); suffix != "" {
				for _, key := range execkey.CandidateKeys(suffix) {
					candidates[key] = true
					primaries[key] = true
				}
			}
		}

		if len(candidates) == 0 {
			continue
		}
		if len(primaries) == 0 {
			primaries[appID] = true
		}

		app := &App{
			AppID:       appID,
			Name:        entry.Name,
			Icon:        entry.Icon,
			PrimaryKeys: primaries,
			EntryID:     entry.ID,
			EntryPath:   entry.Path,
			Exec:        entry.Exec,
		}

		for key := range candidates {
			candidatesByKey[key] = append(candidatesByKey[key], app)
		}
	}

	byKey := make(map[string]*App, len(candidatesByKey))
	for key, contenders := range candidatesByKey {
		uniqueByID := make(map[string]*App)
		for _, app := range contenders {
			if _, exists := uniqueByID[app.AppID]; !exists {
				uniqueByID[app.AppID] = app
			}
		}

		unique := make([]*App, 0, len(uniqueByID))
		for _, app := range uniqueByID {
			unique = append(unique, app)
		}

		sort.Slice(unique, func(i, j int) bool {
			a, b := unique[i], unique[j]
			ra, rb := keyRank(a, key), keyRank(b, key)
			if ra != rb {
				return ra < rb
			}
			da := absDiff(len(a.AppID), len(key))
			db := absDiff(len(b.AppID), len(key))
			if da != db {
				return da < db
			}
			return a.AppID < b.AppID
		})

		byKey[key] = unique[0]
	}

	return &Registry{byKey: byKey}
}

// keyRank orders contenders for a key: exact id match beats a primary key,
// which beats an id/key prefix relation, which beats everything else.
func keyRank(app *App, key string) int {
	switch {
	case app.AppID == key:
		return 0
	case app.PrimaryKeys[key]:
		return 1
	case strings.HasPrefix(app.AppID, key) || strings.HasPrefix(key, app.AppID):
		return 2
	default:
		return 3
	}
}

// Lookup returns the application bound to an exec key.
func (r *Registry) Lookup(key string) (*App, bool) {
	app, ok := r.byKey[key]
	return app, ok
}

// Resolve returns the application for the first candidate key with a binding.
func (r *Registry) Resolve(keys []string) (*App, bool) {
	for _, key := range keys {
		if app, ok := r.byKey[key]; ok {
			return app, true
		}
	}
	return nil, false
}

// ByAppID finds an application by identity rather than key. Linear scan; only
// used on user actions, never in the per-tick path.
func (r *Registry) ByAppID(appID string) (*App, bool) {
	for _, app := range r.byKey {
		if app.AppID == appID {
			return app, true
		}
	}
	return nil, false
}

// Len reports the number of bound keys.
func (r *Registry) Len() int {
	return len(r.byKey)
}

// mimeSuffix extracts the subtype of a mime type, dropping any parameters:
// "application/x-shellscript;v=1" yields "x-shellscript".
func mimeSuffix(mime string) string {
	essence := strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])
	if idx := strings.LastIndex(essence, "/"); idx >= 0 {
		return essence[idx+1:]
	}
	return essence
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
