//go:build linux

// Package engine turns raw process snapshots into aggregated application
// entries with stable identities and deterministic ordering.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/exepta/appscope/internal/desktop"
	"github.com/exepta/appscope/internal/execkey"
	"github.com/exepta/appscope/internal/steam"
	"github.com/exepta/appscope/pkg/model"
)

// Collector is the process table source. Satisfied by snapshot.Collector.
type Collector interface {
	Snapshot(ctx context.Context) ([]model.ProcessSample, error)
	Cores() int
}

// Engine drives one refresh pass per tick. The desktop registry is reloaded
// each pass so newly installed entries show up immediately; Steam titles are
// cached across passes in the resolver.
//
// All methods are safe for concurrent use; refreshes and user actions run on
// different goroutines.
type Engine struct {
	log       *zap.Logger
	collector Collector
	steam     *steam.Resolver
	uid       uint32

	mu       sync.Mutex
	registry *desktop.Registry
	entries  []model.AppEntry
	byPID    map[int32]model.ProcessSample
	sort     model.SortSpec

	tick        int
	debugStride int
}

func New(log *zap.Logger, collector Collector, resolver *steam.Resolver, debugStride int) *Engine {
	return &Engine{
		log:         log,
		collector:   collector,
		steam:       resolver,
		uid:         uint32(os.Getuid()),
		registry:    desktop.BuildRegistry(nil),
		byPID:       make(map[int32]model.ProcessSample),
		sort:        model.SortSpec{Column: model.SortRAM, Desc: true},
		debugStride: debugStride,
	}
}

// Entries returns a copy of the current sorted application list.
func (e *Engine) Entries() []model.AppEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.AppEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Sort returns the active sort state.
func (e *Engine) Sort() model.SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sort
}

// SetSort switches the sort column, toggling direction on repeats, and
// reorders the current entries in place.
func (e *Engine) SetSort(column model.SortColumn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sort = e.sort.Toggle(column)
	sortEntries(e.entries, e.sort)
}

// PIDsFor lists every eligible pid currently resolving to the given app.
// Used by actions that must address all of an application's processes.
func (e *Engine) PIDsFor(appID string) []int32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var pids []int32
	for _, s := range e.byPID {
		if !eligible(s, e.uid) {
			continue
		}
		if id, ok := e.resolveID(s); ok && id == appID {
			pids = append(pids, s.PID)
		}
	}
	return pids
}

// Process returns the stored sample for a pid from the last pass.
func (e *Engine) Process(pid int32) (model.ProcessSample, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.byPID[pid]
	return s, ok
}

// Registry exposes the desktop registry from the last pass.
func (e *Engine) Registry() *desktop.Registry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry
}

// Refresh runs one full pass: snapshot, resolve, aggregate, sort.
func (e *Engine) Refresh(ctx context.Context) error {
	registry := desktop.LoadRegistry()
	if steamApp, ok := registry.Lookup("steam"); ok {
		e.steam.SetDefaultIcon(steamApp.Icon)
	}

	samples, err := e.collector.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot processes: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.registry = registry

	byPID := make(map[int32]model.ProcessSample, len(samples))
	for _, s := range samples {
		byPID[s.PID] = s
	}
	e.byPID = byPID

	var stats passStats
	e.entries = e.aggregate(samples, byPID, &stats)
	sortEntries(e.entries, e.sort)

	e.tick++
	if e.debugStride > 0 && e.tick%e.debugStride == 0 {
		e.log.Debug("refresh pass",
			zap.Int("processes", len(samples)),
			zap.Int("eligible", stats.eligible),
			zap.Int("matched", stats.matched),
			zap.Int("unmatched", stats.unmatched),
			zap.Strings("unmatched_sample", stats.unmatchedSample),
			zap.Int("apps", len(e.entries)),
			zap.Int("steam_cached", e.steam.CacheSize()),
		)
	}
	return nil
}

// passStats counts resolution outcomes for one refresh, with a bounded
// sample of names that matched nothing.
type passStats struct {
	eligible        int
	matched         int
	unmatched       int
	unmatchedSample []string
}

const unmatchedSampleCap = 8

func (s *passStats) noteUnmatched(name string) {
	s.unmatched++
	if len(s.unmatchedSample) < unmatchedSampleCap {
		s.unmatchedSample = append(s.unmatchedSample, name)
	}
}

// identity is a resolved application for one process.
type identity struct {
	appID string
	name  string
	icon  string
}

func (e *Engine) resolve(s model.ProcessSample, byPID map[int32]model.ProcessSample) (identity, bool) {
	if app, ok := e.registry.Resolve(execkey.FromProcess(s.Exe, s.Cmdline, s.Name)); ok {
		return identity{appID: app.AppID, name: app.Name, icon: app.Icon}, true
	}
	if steamID, ok := steam.AppIDForProcess(s, byPID); ok {
		title := e.steam.Title(steamID)
		return identity{
			appID: "steam-app-" + steamID,
			name:  title.Name,
			icon:  title.Icon,
		}, true
	}
	return identity{}, false
}

// resolveID is the identity-only form used for pid lookups between passes.
func (e *Engine) resolveID(s model.ProcessSample) (string, bool) {
	id, ok := e.resolve(s, e.byPID)
	if !ok {
		return "", false
	}
	return id.appID, true
}

func (e *Engine) aggregate(samples []model.ProcessSample, byPID map[int32]model.ProcessSample, stats *passStats) []model.AppEntry {
	cores := float64(e.collector.Cores())
	if cores < 1 {
		cores = 1
	}

	groups := make(map[string]*model.AppEntry)
	for _, s := range samples {
		if !eligible(s, e.uid) {
			continue
		}
		if len(execkey.FromProcess(s.Exe, s.Cmdline, s.Name)) == 0 {
			continue
		}
		stats.eligible++

		id, ok := e.resolve(s, byPID)
		if !ok {
			stats.noteUnmatched(s.Name)
			continue
		}
		if excludedAppID(id.appID) {
			continue
		}
		stats.matched++

		entry, ok := groups[id.appID]
		if !ok {
			entry = &model.AppEntry{
				AppID:    id.appID,
				Name:     id.name,
				Icon:     id.icon,
				PID:      s.PID,
				RSSBytes: s.RSSBytes,
			}
			groups[id.appID] = entry
		}

		entry.CPUPercent += clamp(s.CPUPercent/cores, 0, 100)
		if s.PID < entry.PID {
			entry.PID = s.PID
		}
		if s.RSSBytes > entry.RSSBytes {
			entry.RSSBytes = s.RSSBytes
		}
		threads := s.Threads
		if threads < 1 {
			threads = 1
		}
		entry.Threads += threads
	}

	entries := make([]model.AppEntry, 0, len(groups))
	for _, entry := range groups {
		entry.CPUPercent = clamp(entry.CPUPercent, 0, 100)
		if entry.Threads < 1 {
			entry.Threads = 1
		}
		entries = append(entries, *entry)
	}
	return entries
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
