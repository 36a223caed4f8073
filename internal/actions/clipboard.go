//go:build linux

package actions

import (
	"os/exec"
	"strings"
)

// clipboardTools is the fallback chain for putting text on the clipboard,
// Wayland first.
var clipboardTools = []struct {
	bin  string
	args []string
}{
	{bin: "wl-copy"},
	{bin: "xclip", args: []string{"-selection", "clipboard"}},
	{bin: "xsel", args: []string{"--clipboard", "--input"}},
}

// runClipboardTool pipes text into one tool and reports success. Swapped out
// in tests.
var runClipboardTool = func(bin string, args []string, text string) bool {
	cmd := exec.Command(bin, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run() == nil
}

func (a *Actions) copyText(text string) bool {
	for _, tool := range clipboardTools {
		if runClipboardTool(tool.bin, tool.args, text) {
			return true
		}
	}
	return false
}
