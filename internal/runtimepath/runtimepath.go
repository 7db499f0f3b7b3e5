// Package runtimepath locates the daemon's IPC socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// SocketEnv overrides the IPC socket location.
const SocketEnv = "BISMUTH_SOCKET"

const socketName = "bismuth.sock"

// Dir returns the per-user runtime directory. $XDG_RUNTIME_DIR is read on
// every call; without it the xdg default (/run/user/<uid>) is used when it
// exists, and a private directory in the temp dir is created otherwise.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	if info, err := os.Stat(xdg.RuntimeDir); err == nil && info.IsDir() {
		return xdg.RuntimeDir, nil
	}

	dir := fallbackDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func fallbackDir() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("bismuth-runtime-%d", os.Getuid()))
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}
