package platform

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

const notifyTimeout = 2 * time.Second

// DesktopNotifier returns a notifier that shows text through notify-send,
// or nil when notify-send is not installed.
func DesktopNotifier(logger *slog.Logger) func(text string) {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return nil
	}
	return func(text string) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			cmd := exec.CommandContext(ctx, path,
				"--app-name=bismuth",
				"--expire-time=1000",
				"--hint=string:x-canonical-private-synchronous:bismuth",
				text,
			)
			if err := cmd.Run(); err != nil && logger != nil {
				logger.Debug("notify-send failed", "error", err)
			}
		}()
	}
}
