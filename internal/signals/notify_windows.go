//go:build windows

// internal/signals/notify_windows.go
package signals

import (
	"os"
	"syscall"
)

// Windows has no resize signal; the console size is re-read on the
// next full rebuild instead.
var watched = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

func isResize(os.Signal) bool {
	return false
}
