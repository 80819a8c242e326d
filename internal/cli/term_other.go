//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package cli

import "os"

// IsTerminal always reports false on platforms without terminal support.
func IsTerminal(f *os.File) bool {
	return false
}
