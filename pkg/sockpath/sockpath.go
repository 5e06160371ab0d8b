// Package sockpath provides the default Unix socket path for the e107d daemon.
// Both binaries (e107d, e107ctl) use this to agree on the default.
package sockpath

import (
	"os"
	"path/filepath"
)

// DefaultSocketPath returns the default path for the e107d Unix socket.
// It prefers $XDG_RUNTIME_DIR/e107/e107d.sock (standard on Linux, tmpfs-backed),
// falling back to ~/.config/e107/e107d.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "e107", "e107d.sock")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "e107", "e107d.sock")
}
