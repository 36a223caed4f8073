//go:build linux

// Package launch builds and runs the fallback chain used to start an
// application: steam URI, desktop-entry launchers, sanitized Exec line, then
// the raw command observed on the live process.
package launch

import (
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/exepta/appscope/internal/desktop"
	"github.com/exepta/appscope/pkg/model"
)

// Kind orders the launch strategies from most to least faithful.
type Kind int

const (
	// SteamURI opens steam://rungameid/<id> through the URL handler.
	SteamURI Kind = iota
	// EntryID runs gtk-launch with the desktop entry id.
	EntryID
	// EntryPath runs gio launch with the entry's file path.
	EntryPath
	// ExecLine runs the entry's Exec value through a login shell after
	// stripping field codes.
	ExecLine
	// Command re-runs the observed argv of the live process.
	Command
	// Executable runs the bare exe path with no arguments.
	Executable
)

// Candidate is one way to start an application. Value holds the URI, entry
// id, path, exec line, or program depending on Kind; Args is only set for
// Command.
type Candidate struct {
	Kind  Kind
	Value string
	Args  []string
}

// steamAppPrefix marks synthesized Steam identities.
const steamAppPrefix = "steam-app-"

// SteamAppID splits a Steam identity into its numeric id.
func SteamAppID(appID string) (string, bool) {
	id, ok := strings.CutPrefix(appID, steamAppPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// CandidatesFor assembles the ordered chain for an application. app may be
// nil when no desktop entry backs the identity; proc carries the live
// process, zero-valued when it already exited.
func CandidatesFor(appID string, app *desktop.App, proc model.ProcessSample) []Candidate {
	candidates := make([]Candidate, 0, 6)

	if steamID, ok := SteamAppID(appID); ok {
		candidates = append(candidates, Candidate{Kind: SteamURI, Value: "steam://rungameid/" + steamID})
	}

	if app != nil {
		launchID := strings.TrimSuffix(app.EntryID, ".desktop")
		if strings.TrimSpace(launchID) != "" {
			candidates = append(candidates, Candidate{Kind: EntryID, Value: launchID})
		}
		if app.EntryPath != "" {
			candidates = append(candidates, Candidate{Kind: EntryPath, Value: app.EntryPath})
		}
		if strings.TrimSpace(app.Exec) != "" {
			candidates = append(candidates, Candidate{Kind: ExecLine, Value: app.Exec})
		}
	}

	if program := strings.TrimSpace(proc.Argv0()); program != "" {
		var args []string
		if len(proc.Cmdline) > 1 {
			args = append(args, proc.Cmdline[1:]...)
		}
		candidates = append(candidates, Candidate{Kind: Command, Value: program, Args: args})
	}
	if proc.Exe != "" {
		candidates = append(candidates, Candidate{Kind: Executable, Value: proc.Exe})
	}

	return candidates
}

// fieldCodes are the desktop-entry placeholders stripped before handing an
// Exec line to the shell.
var fieldCodes = []string{
	"%f", "%F", "%u", "%U", "%d", "%D", "%n", "%N", "%k", "%v", "%m", "%i", "%c",
}

// StripFieldCodes removes Exec field codes and unescapes doubled percents.
func StripFieldCodes(execLine string) string {
	for _, code := range fieldCodes {
		execLine = strings.ReplaceAll(execLine, code, "")
	}
	execLine = strings.ReplaceAll(execLine, "%%", "%")
	return strings.TrimSpace(execLine)
}

// Launcher runs candidates in order until one spawns. Spawn is swappable for
// tests; the default detaches the child into its own process group.
type Launcher struct {
	log *zap.Logger

	// Spawn starts a program detached and reports whether it launched.
	Spawn func(program string, args ...string) bool
}

func NewLauncher(log *zap.Logger) *Launcher {
	return &Launcher{log: log, Spawn: spawnDetached}
}

// Run tries each candidate and stops at the first success.
func (l *Launcher) Run(candidates []Candidate) bool {
	for _, c := range candidates {
		if l.runOne(c) {
			return true
		}
	}
	return false
}

func (l *Launcher) runOne(c Candidate) bool {
	switch c.Kind {
	case SteamURI:
		return l.Spawn("xdg-open", c.Value)
	case EntryID:
		return l.Spawn("gtk-launch", c.Value)
	case EntryPath:
		return l.Spawn("gio", "launch", c.Value)
	case ExecLine:
		command := StripFieldCodes(c.Value)
		if command == "" {
			return false
		}
		return l.Spawn("sh", "-lc", command)
	case Command:
		return l.Spawn(c.Value, c.Args...)
	case Executable:
		return l.Spawn(c.Value)
	}
	return false
}

// OpenPath opens a directory in the user's file manager.
func (l *Launcher) OpenPath(path string) bool {
	ok := l.Spawn("xdg-open", path)
	if !ok {
		l.log.Warn("open path failed", zap.String("path", path))
	}
	return ok
}

// ParentDir is the directory shown for a process path, the exe itself when
// it has no parent.
func ParentDir(exe string) string {
	parent := filepath.Dir(exe)
	if parent == "." || parent == "" {
		return exe
	}
	return parent
}

func spawnDetached(program string, args ...string) bool {
	cmd := exec.Command(program, args...)
	// nil stdio descriptors map to /dev/null; the process group split keeps
	// the child alive past the monitor's exit.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return false
	}
	// Reap in the background so a short-lived launcher does not zombie.
	go func() { _ = cmd.Wait() }()
	return true
}
