//go:build linux

package steam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Title is the cached metadata for one Steam app id.
type Title struct {
	ID   string
	Name string
	Icon string
}

// Resolver owns the lazy title cache. Titles are loaded on first sighting of
// an id and kept until invalidated; library scans are too expensive to repeat
// every tick.
type Resolver struct {
	log *zap.Logger

	// DefaultIcon is used when no library-cache artwork exists for an id,
	// typically the Steam client's own desktop icon.
	DefaultIcon string

	mu    sync.Mutex
	cache map[string]Title
}

func NewResolver(log *zap.Logger) *Resolver {
	return &Resolver{
		log:   log,
		cache: make(map[string]Title),
	}
}

// Title returns the metadata for an app id, loading and caching it on first
// use. A missing manifest degrades to a synthesized name and the default icon.
func (r *Resolver) Title(appID string) Title {
	r.mu.Lock()
	defer r.mu.Unlock()

	if title, ok := r.cache[appID]; ok {
		return title
	}

	title := Title{ID: appID, Name: manifestName(appID), Icon: r.iconPath(appID)}
	if title.Name == "" {
		title.Name = fmt.Sprintf("Steam App %s", appID)
	}
	r.cache[appID] = title
	return title
}

// SetDefaultIcon updates the fallback icon used for ids without artwork.
func (r *Resolver) SetDefaultIcon(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DefaultIcon = path
}

// Invalidate drops cached titles. With no arguments the whole cache is
// cleared; otherwise only the given ids are dropped.
func (r *Resolver) Invalidate(appIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(appIDs) == 0 {
		r.cache = make(map[string]Title)
		return
	}
	for _, id := range appIDs {
		delete(r.cache, id)
	}
}

// CacheSize reports the number of cached titles.
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// Watch invalidates cached titles when their appmanifest changes on disk, so
// a rename or reinstall shows up without restarting the monitor. Blocks until
// the context is done; callers run it on its own goroutine.
func (r *Resolver) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, root := range LibraryRoots() {
		dir := steamappsDir(root)
		if err := watcher.Add(dir); err != nil {
			r.log.Debug("steam watch skipped", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if id, ok := manifestAppID(event.Name); ok {
				r.log.Debug("steam manifest changed", zap.String("app_id", id))
				r.Invalidate(id)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Debug("steam watch error", zap.Error(err))
		}
	}
}

// manifestAppID parses "<dir>/appmanifest_<id>.acf" into its id.
func manifestAppID(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "appmanifest_") || !strings.HasSuffix(base, ".acf") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(base, "appmanifest_"), ".acf")
	if id == "" {
		return "", false
	}
	return id, true
}

// RootPaths returns the Steam installation roots that exist on this machine:
// the compat-tool override first, then the default and legacy home locations.
func RootPaths() []string {
	var candidates []string

	if compat := os.Getenv("STEAM_COMPAT_CLIENT_INSTALL_PATH"); compat != "" {
		candidates = append(candidates, compat)
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates,
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".steam", "steam"),
		)
	}

	var roots []string
	seen := make(map[string]bool)
	for _, path := range candidates {
		if seen[path] {
			continue
		}
		seen[path] = true
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			roots = append(roots, path)
		}
	}
	return roots
}

// LibraryRoots expands the installation roots with every library folder
// referenced from their libraryfolders.vdf, dropping paths that no longer
// exist.
func LibraryRoots() []string {
	var all []string
	for _, root := range RootPaths() {
		all = append(all, root)
		vdf := filepath.Join(root, "steamapps", "libraryfolders.vdf")
		if content, err := os.ReadFile(vdf); err == nil {
			all = append(all, LibraryRootsFromVDF(string(content))...)
		}
	}

	var roots []string
	seen := make(map[string]bool)
	for _, path := range all {
		if seen[path] {
			continue
		}
		seen[path] = true
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			roots = append(roots, path)
		}
	}
	return roots
}

// steamappsDir maps a library root to its steamapps dir, tolerating roots
// that already point at one.
func steamappsDir(root string) string {
	if strings.EqualFold(filepath.Base(root), "steamapps") {
		return root
	}
	return filepath.Join(root, "steamapps")
}

func readManifest(appID string) (steamapps, content string, ok bool) {
	for _, root := range LibraryRoots() {
		dir := steamappsDir(root)
		manifest := filepath.Join(dir, fmt.Sprintf("appmanifest_%s.acf", appID))
		data, err := os.ReadFile(manifest)
		if err != nil {
			continue
		}
		return dir, string(data), true
	}
	return "", "", false
}

// manifestName returns the app's display name from its manifest, or "".
func manifestName(appID string) string {
	_, content, ok := readManifest(appID)
	if !ok {
		return ""
	}
	name, ok := ACFValue(content, "name")
	if !ok {
		return ""
	}
	return strings.TrimSpace(name)
}

// InstallDir returns the app's install directory when it exists on disk.
func InstallDir(appID string) (string, bool) {
	steamapps, content, ok := readManifest(appID)
	if !ok {
		return "", false
	}
	installDir, ok := ACFValue(content, "installdir")
	if !ok || installDir == "" {
		return "", false
	}

	path := filepath.Join(steamapps, "common", installDir)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// preferredIconNames is the artwork preference order inside librarycache.
var preferredIconNames = []string{"logo.png", "library_600x900.jpg", "library_header.jpg"}

var iconExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".svg": true,
}

func (r *Resolver) iconPath(appID string) string {
	for _, root := range RootPaths() {
		appDir := filepath.Join(root, "appcache", "librarycache", appID)
		if info, err := os.Stat(appDir); err != nil || !info.IsDir() {
			continue
		}

		if path := preferredIconIn(appDir); path != "" {
			return path
		}

		// One level of nested dirs; newer Steam versions shard artwork.
		entries, err := os.ReadDir(appDir)
		if err != nil {
			continue
		}
		var nested []string
		for _, entry := range entries {
			if entry.IsDir() {
				nested = append(nested, filepath.Join(appDir, entry.Name()))
			}
		}
		sort.Strings(nested)
		for _, dir := range nested {
			if path := preferredIconIn(dir); path != "" {
				return path
			}
		}
	}

	return r.DefaultIcon
}

func preferredIconIn(dir string) string {
	for _, name := range preferredIconNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if iconExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	if len(images) == 0 {
		return ""
	}
	sort.Strings(images)
	return images[0]
}
