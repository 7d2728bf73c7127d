package mcpserver

import (
	"context"
	"os/exec"
	"runtime"
)

// openLinkFunc launches a deep link in the host desktop environment. The
// indirection exists so tests can substitute the exec call.
type openLinkFunc func(ctx context.Context, link string) error

// openWithDesktop shells out to the macOS `open` command. Other platforms
// are rejected up front with a typed error; no command is attempted there.
func openWithDesktop(ctx context.Context, link string) error {
	if runtime.GOOS != "darwin" {
		return &UnsupportedError{Op: "open_message_in_telegram", Platform: runtime.GOOS}
	}
	return exec.CommandContext(ctx, "open", link).Run()
}
