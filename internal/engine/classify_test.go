package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exepta/appscope/pkg/model"
)

func TestEligible(t *testing.T) {
	uid := uint32(1000)
	base := model.ProcessSample{UID: 1000, Exe: "/usr/bin/firefox", Name: "firefox"}

	tests := []struct {
		name   string
		mutate func(*model.ProcessSample)
		want   bool
	}{
		{"plain app", func(*model.ProcessSample) {}, true},
		{"other uid", func(s *model.ProcessSample) { s.UID = 0 }, false},
		{"no exe", func(s *model.ProcessSample) { s.Exe = "" }, false},
		{"empty name", func(s *model.ProcessSample) { s.Name = "" }, false},
		{"kernel thread", func(s *model.ProcessSample) { s.Name = "[kworker/0:1]" }, false},
		{"daemon name", func(s *model.ProcessSample) { s.Name = "pipewire-daemon" }, false},
		{"helper exe", func(s *model.ProcessSample) { s.Exe = "/usr/lib/web-helper" }, false},
		{"applet argv0", func(s *model.ProcessSample) { s.Cmdline = []string{"/usr/bin/nm-applet"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			assert.Equal(t, tt.want, eligible(s, uid))
		})
	}
}

func TestBackgroundComponentChecksStems(t *testing.T) {
	// Marker inside the directory must not trigger, only the stem does.
	s := model.ProcessSample{Exe: "/opt/helper-tools/editor", Name: "editor"}
	assert.False(t, backgroundComponent(s))

	s.Exe = "/opt/tools/editor-helper"
	assert.True(t, backgroundComponent(s))
}

func TestExcludedAppID(t *testing.T) {
	assert.True(t, excludedAppID("gnome-panel"))
	assert.True(t, excludedAppID("xdg-desktop-portal-gtk"))
	assert.True(t, excludedAppID("plasma-workspaces"))
	assert.False(t, excludedAppID("firefox"))
	assert.False(t, excludedAppID("steam-app-620"))
}
