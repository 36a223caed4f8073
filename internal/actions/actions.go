//go:build linux

// Package actions implements the user-facing operations on a selected
// application: restart, focus, stop, kill, open its path, and copy its
// identity to the clipboard.
package actions

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/exepta/appscope/internal/desktop"
	"github.com/exepta/appscope/internal/launch"
	"github.com/exepta/appscope/internal/steam"
	"github.com/exepta/appscope/pkg/model"
)

// AppSource is the engine surface actions depend on.
type AppSource interface {
	PIDsFor(appID string) []int32
	Process(pid int32) (model.ProcessSample, bool)
	Registry() *desktop.Registry
	Refresh(ctx context.Context) error
}

const (
	defaultTermWait = 3 * time.Second
	defaultKillWait = time.Second
	pollInterval    = 100 * time.Millisecond
)

// Actions wires the engine to the launcher and the OS. Signal and the wait
// windows are swappable for tests.
type Actions struct {
	log      *zap.Logger
	apps     AppSource
	launcher *launch.Launcher

	Signal   func(pid int32, sig unix.Signal) error
	TermWait time.Duration
	KillWait time.Duration
}

func New(log *zap.Logger, apps AppSource, launcher *launch.Launcher) *Actions {
	return &Actions{
		log:      log,
		apps:     apps,
		launcher: launcher,
		Signal: func(pid int32, sig unix.Signal) error {
			return unix.Kill(int(pid), sig)
		},
		TermWait: defaultTermWait,
		KillWait: defaultKillWait,
	}
}

// Restart tears the application down and relaunches it. The launch chain is
// captured before any signal goes out, while the process is still alive to
// describe itself. Apps that ignore SIGTERM get one SIGKILL retry.
func (a *Actions) Restart(ctx context.Context, sel model.SelectedApp) {
	candidates := a.candidatesFor(sel)

	a.signalApp(sel.AppID, unix.SIGTERM)
	a.waitExit(ctx, sel.AppID, a.TermWait)

	if !a.launcher.Run(candidates) {
		a.signalApp(sel.AppID, unix.SIGKILL)
		a.waitExit(ctx, sel.AppID, a.KillWait)
		_ = a.launcher.Run(candidates)
	}
}

// Focus relaunches the application. Single-instance apps raise their
// existing window when launched again.
func (a *Actions) Focus(sel model.SelectedApp) bool {
	return a.launcher.Run(a.candidatesFor(sel))
}

// Stop sends SIGTERM to every process of the application.
func (a *Actions) Stop(ctx context.Context, sel model.SelectedApp) {
	a.signalApp(sel.AppID, unix.SIGTERM)
	a.refresh(ctx)
}

// Kill sends SIGKILL to every process of the application.
func (a *Actions) Kill(ctx context.Context, sel model.SelectedApp) {
	a.signalApp(sel.AppID, unix.SIGKILL)
	a.refresh(ctx)
}

// OpenPath opens the application's install directory: the Steam library
// location for Steam apps, otherwise the directory holding the executable.
func (a *Actions) OpenPath(sel model.SelectedApp) bool {
	if steamID, ok := launch.SteamAppID(sel.AppID); ok {
		if dir, ok := steam.InstallDir(steamID); ok {
			return a.launcher.OpenPath(dir)
		}
	}

	proc, ok := a.apps.Process(sel.PID)
	if !ok || proc.Exe == "" {
		return false
	}
	return a.launcher.OpenPath(launch.ParentDir(proc.Exe))
}

// CopyInfo puts the selected identity on the clipboard.
func (a *Actions) CopyInfo(sel model.SelectedApp) bool {
	return a.copyText("app_id=" + sel.AppID + "\npid=" + strconv.Itoa(int(sel.PID)))
}

func (a *Actions) candidatesFor(sel model.SelectedApp) []launch.Candidate {
	var app *desktop.App
	if found, ok := a.apps.Registry().ByAppID(sel.AppID); ok {
		app = found
	}
	proc, _ := a.apps.Process(sel.PID)
	return launch.CandidatesFor(sel.AppID, app, proc)
}

func (a *Actions) signalApp(appID string, sig unix.Signal) {
	for _, pid := range a.apps.PIDsFor(appID) {
		if err := a.Signal(pid, sig); err != nil {
			a.log.Debug("signal failed",
				zap.Int32("pid", pid),
				zap.String("signal", sig.String()),
				zap.Error(err),
			)
		}
	}
}

// waitExit polls until no process resolves to the app, the timeout passes,
// or the context is cancelled.
func (a *Actions) waitExit(ctx context.Context, appID string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		a.refresh(ctx)
		if len(a.apps.PIDsFor(appID)) == 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Actions) refresh(ctx context.Context) {
	if err := a.apps.Refresh(ctx); err != nil {
		a.log.Debug("refresh after action failed", zap.Error(err))
	}
}
